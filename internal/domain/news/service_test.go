package news

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	domainllm "fintide/site/internal/domain/llm"
)

func TestServiceResolveReturnsCanonicalArticle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newStubRepository()
	repo.seed(Article{ID: 7, Title: "Q3 Earnings: Up 12%!", BodyHTML: "<p>Up.</p>"})

	service := newTestService(t, repo, nil)

	article, redirect, err := service.Resolve(ctx, "7-q3-earnings-up-12")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if article == nil || article.ID != 7 {
		t.Fatalf("expected article 7, got %#v", article)
	}

	if redirect != "" {
		t.Fatalf("expected no redirect for canonical segment, got %q", redirect)
	}
}

func TestServiceResolveRedirectsStaleSlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newStubRepository()
	repo.seed(Article{ID: 7, Title: "Q3 Earnings: Up 12%!", BodyHTML: "<p>Up.</p>"})

	service := newTestService(t, repo, nil)

	for _, segment := range []string{"7-old-headline", "7", "007-q3-earnings-up-12"} {
		_, redirect, err := service.Resolve(ctx, segment)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", segment, err)
		}

		if redirect != "/news/7-q3-earnings-up-12" {
			t.Fatalf("expected redirect to canonical path for %q, got %q", segment, redirect)
		}
	}
}

func TestServiceResolveWithoutIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	service := newTestService(t, repo, nil)

	_, _, err := service.Resolve(context.Background(), "some-title")
	if !eris.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}

	if repo.getCalls != 0 {
		t.Fatalf("expected repository not to be queried, got %d calls", repo.getCalls)
	}
}

func TestServiceResolveUnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	service := newTestService(t, newStubRepository(), nil)

	_, _, err := service.Resolve(context.Background(), "404-missing")
	if !eris.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestServiceResolvePropagatesRepositoryError(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	repo.err = errStub("disk on fire")
	service := newTestService(t, repo, nil)

	_, _, err := service.Resolve(context.Background(), "1-anything")
	if err == nil {
		t.Fatalf("expected repository error to propagate")
	}
	if eris.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected repository failure not to be reported as not found")
	}
}

func TestServiceListRecentClampsLimit(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	service := newTestService(t, repo, nil)

	if _, err := service.ListRecent(context.Background(), 0); err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if repo.lastLimit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, repo.lastLimit)
	}

	if _, err := service.ListRecent(context.Background(), 5000); err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if repo.lastLimit != maxListLimit {
		t.Fatalf("expected capped limit %d, got %d", maxListLimit, repo.lastLimit)
	}
}

func TestServicePublishUsesSuppliedExcerpt(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	summarizer := &stubSummarizer{summary: "unused"}
	service := newTestService(t, repo, summarizer)

	article, err := service.Publish(context.Background(), PublishInput{
		Title:    "  Fintide joins the Open Banking pilot  ",
		BodyHTML: "<p>Body</p>",
		Excerpt:  "Hand written teaser.",
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if article.Title != "Fintide joins the Open Banking pilot" {
		t.Fatalf("expected trimmed title, got %q", article.Title)
	}
	if article.Excerpt != "Hand written teaser." {
		t.Fatalf("expected supplied excerpt, got %q", article.Excerpt)
	}
	if summarizer.calls != 0 {
		t.Fatalf("expected summarizer not to be called, got %d calls", summarizer.calls)
	}
	if article.ID == 0 {
		t.Fatalf("expected repository to assign an id")
	}
	if article.Path() != "/news/1-fintide-joins-the-open-banking-pilot" {
		t.Fatalf("unexpected article path %q", article.Path())
	}
	if !article.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected published at %s, got %s", fixedNow, article.PublishedAt)
	}
}

func TestServicePublishUsesSummarizer(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	summarizer := &stubSummarizer{summary: "  Fintide expands to three new markets.  "}
	service := newTestService(t, repo, summarizer)

	article, err := service.Publish(context.Background(), PublishInput{
		Title:    "Expansion",
		BodyHTML: "<p>Long body</p>",
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if article.Excerpt != "Fintide expands to three new markets." {
		t.Fatalf("expected summarizer excerpt, got %q", article.Excerpt)
	}
	if summarizer.calls != 1 {
		t.Fatalf("expected summarizer to be called once, got %d", summarizer.calls)
	}
	if summarizer.capturedTitle != "Expansion" {
		t.Fatalf("expected title to be passed to summarizer, got %q", summarizer.capturedTitle)
	}
}

func TestServicePublishFallsBackWhenSummarizerFails(t *testing.T) {
	t.Parallel()

	repo := newStubRepository()
	summarizer := &stubSummarizer{err: errStub("llm unavailable")}
	service := newTestService(t, repo, summarizer)

	article, err := service.Publish(context.Background(), PublishInput{
		Title:    "Outage report",
		BodyHTML: "<h2>Summary</h2><p>All systems   recovered.</p>",
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if article.Excerpt != "Summary All systems recovered." {
		t.Fatalf("expected plain text excerpt, got %q", article.Excerpt)
	}
}

func TestServicePublishPlainTextExcerptIsBounded(t *testing.T) {
	t.Parallel()

	service := newTestService(t, newStubRepository(), nil)

	body := "<p>" + strings.Repeat("liquidity ", 100) + "</p>"
	article, err := service.Publish(context.Background(), PublishInput{Title: "Long", BodyHTML: body})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if count := utf8.RuneCountInString(article.Excerpt); count > excerptMaxRunes+1 {
		t.Fatalf("expected excerpt of at most %d runes, got %d", excerptMaxRunes+1, count)
	}
	if !strings.HasSuffix(article.Excerpt, "…") {
		t.Fatalf("expected truncated excerpt to end with an ellipsis, got %q", article.Excerpt)
	}
}

func TestServicePublishValidatesInput(t *testing.T) {
	t.Parallel()

	service := newTestService(t, newStubRepository(), nil)

	cases := []PublishInput{
		{Title: "   ", BodyHTML: "<p>x</p>"},
		{Title: "Title", BodyHTML: "  "},
		{Title: strings.Repeat("t", maxTitleRunes+1), BodyHTML: "<p>x</p>"},
	}

	for _, input := range cases {
		if _, err := service.Publish(context.Background(), input); !eris.Is(err, ErrInvalidArticle) {
			t.Fatalf("expected ErrInvalidArticle for %+v, got %v", input, err)
		}
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, nil, silentLogger(), nil); err == nil {
		t.Fatalf("expected error when repository is nil")
	}
}

func TestServiceSummarizerReady(t *testing.T) {
	t.Parallel()

	if newTestService(t, newStubRepository(), nil).SummarizerReady() {
		t.Fatalf("expected summarizer to be reported as not ready")
	}
	if !newTestService(t, newStubRepository(), &stubSummarizer{}).SummarizerReady() {
		t.Fatalf("expected summarizer to be reported as ready")
	}
}

// helpers

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository, summarizer domainllm.Summarizer) Service {
	t.Helper()

	svc, err := NewService(repo, summarizer, silentLogger(), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	svc.(*service).now = func() time.Time { return fixedNow }
	return svc
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type errStub string

func (e errStub) Error() string {
	return string(e)
}

type stubRepository struct {
	articles  map[uint64]Article
	nextID    uint64
	err       error
	getCalls  int
	lastLimit int
}

var _ Repository = (*stubRepository)(nil)

func newStubRepository() *stubRepository {
	return &stubRepository{articles: make(map[uint64]Article), nextID: 1}
}

func (s *stubRepository) seed(article Article) {
	s.articles[article.ID] = article
	if article.ID >= s.nextID {
		s.nextID = article.ID + 1
	}
}

func (s *stubRepository) GetByID(_ context.Context, id uint64) (*Article, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	article, ok := s.articles[id]
	if !ok {
		return nil, nil
	}
	return &article, nil
}

func (s *stubRepository) Create(_ context.Context, article *Article) error {
	if s.err != nil {
		return s.err
	}
	article.ID = s.nextID
	article.CreatedAt = fixedNow
	s.nextID++
	s.articles[article.ID] = *article
	return nil
}

func (s *stubRepository) ListRecent(_ context.Context, limit int) ([]Article, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}

	articles := make([]Article, 0, len(s.articles))
	for _, article := range s.articles {
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (s *stubRepository) Count(_ context.Context) (int64, error) {
	return int64(len(s.articles)), s.err
}

type stubSummarizer struct {
	summary       string
	err           error
	calls         int
	capturedTitle string
}

var _ domainllm.Summarizer = (*stubSummarizer)(nil)

func (s *stubSummarizer) Summarize(_ context.Context, title, _ string) (string, error) {
	s.calls++
	s.capturedTitle = title
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}
