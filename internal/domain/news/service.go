package news

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	domainllm "fintide/site/internal/domain/llm"
	"fintide/site/internal/platform/htmltext"
	"fintide/site/internal/platform/slug"
)

// Service defines the news operations used by the presentation layer.
type Service interface {
	Resolve(ctx context.Context, segment string) (*Article, string, error)
	ListRecent(ctx context.Context, limit int) ([]Article, error)
	Publish(ctx context.Context, input PublishInput) (*Article, error)
	Count(ctx context.Context) (int64, error)
	SummarizerReady() bool
}

type service struct {
	repo       Repository
	summarizer domainllm.Summarizer
	logger     *logrus.Logger
	sentryHub  *sentry.Hub
	now        func() time.Time
}

var _ Service = (*service)(nil)

var (
	// ErrArticleNotFound indicates the requested article does not exist or the path carries no id.
	ErrArticleNotFound = eris.New("article not found")
	// ErrInvalidArticle indicates a publish request failed validation.
	ErrInvalidArticle = eris.New("invalid article")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxTitleRunes    = 200
	excerptMaxRunes  = 280
	summarizeTimeout = 20 * time.Second
)

// NewService wires the news service with its dependencies. The summarizer is optional.
func NewService(repo Repository, summarizer domainllm.Summarizer, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("news repository is required")
	}

	return &service{
		repo:       repo,
		summarizer: summarizer,
		logger:     logger,
		sentryHub:  hub,
		now:        time.Now,
	}, nil
}

// Resolve looks up the article addressed by an "{id}-{slug}" path segment.
// When the segment is not the canonical one for the article, the canonical
// path is returned as the redirect target.
func (s *service) Resolve(ctx context.Context, segment string) (*Article, string, error) {
	trimmed := strings.TrimSpace(segment)

	id, ok := slug.ParseArticleID(trimmed)
	if !ok {
		return nil, "", eris.Wrapf(ErrArticleNotFound, "no article id in segment %q", trimmed)
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"article_id": id}, err, "retrieving article from repository")
		return nil, "", eris.Wrapf(err, "retrieving article: %d", id)
	}

	if article == nil {
		return nil, "", eris.Wrapf(ErrArticleNotFound, "article %d", id)
	}

	if trimmed != article.Segment() {
		return article, article.Path(), nil
	}

	return article, "", nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	articles, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.recordError(logrus.Fields{"limit": limit}, err, "listing recent articles")
		return nil, eris.Wrap(err, "listing recent articles")
	}

	return articles, nil
}

func (s *service) Publish(ctx context.Context, input PublishInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, eris.Wrap(ErrInvalidArticle, "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return nil, eris.Wrapf(ErrInvalidArticle, "title exceeds %d characters", maxTitleRunes)
	}

	body := strings.TrimSpace(input.BodyHTML)
	if body == "" {
		return nil, eris.Wrap(ErrInvalidArticle, "body is required")
	}

	excerpt, err := s.buildExcerpt(ctx, title, body, input.Excerpt)
	if err != nil {
		return nil, err
	}

	publishedAt := input.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = s.now()
	}

	article := &Article{
		Title:       title,
		Excerpt:     excerpt,
		BodyHTML:    body,
		PublishedAt: publishedAt.UTC(),
	}

	if err := s.repo.Create(ctx, article); err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "persisting article")
		return nil, eris.Wrapf(err, "persisting article: %s", title)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"article_id": article.ID,
			"path":       article.Path(),
		}).Info("article published")
	}

	return article, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.recordError(nil, err, "counting articles")
		return 0, eris.Wrap(err, "counting articles")
	}
	return count, nil
}

func (s *service) SummarizerReady() bool {
	return s.summarizer != nil
}

func (s *service) buildExcerpt(ctx context.Context, title, body, supplied string) (string, error) {
	if excerpt := strings.TrimSpace(supplied); excerpt != "" {
		return htmltext.Truncate(excerpt, excerptMaxRunes), nil
	}

	if s.summarizer != nil {
		summarizeCtx, cancel := context.WithTimeout(ctx, summarizeTimeout)
		summary, err := s.summarizer.Summarize(summarizeCtx, title, body)
		cancel()

		if err == nil && strings.TrimSpace(summary) != "" {
			return htmltext.Truncate(summary, excerptMaxRunes), nil
		}
		if err != nil {
			s.recordError(logrus.Fields{"title": title}, err, "summarizing article, falling back to plain text excerpt")
		}
	}

	text, err := htmltext.Extract(body)
	if err != nil {
		return "", eris.Wrap(ErrInvalidArticle, "body is not valid html")
	}

	return htmltext.Truncate(text, excerptMaxRunes), nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
