package http

import (
	"context"
	"crypto/subtle"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"fintide/site/internal/data/database"
	"fintide/site/internal/domain/news"
)

type publishArticleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          struct {
		Title       string    `json:"title,omitempty" maxLength:"200" doc:"Article headline"`
		BodyHTML    string    `json:"body_html,omitempty" doc:"Article body as HTML"`
		Excerpt     string    `json:"excerpt,omitempty" doc:"Teaser text; generated when empty"`
		PublishedAt time.Time `json:"published_at,omitempty" doc:"Publication time; defaults to now"`
	}
}

type publishArticleOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     struct {
		ID      uint64 `json:"id"`
		Slug    string `json:"slug"`
		Path    string `json:"path"`
		Excerpt string `json:"excerpt"`
	}
}

type healthResponse struct {
	Status int
	Body   struct {
		Status     string `json:"status"`
		Database   string `json:"database"`
		Summarizer string `json:"summarizer"`
	}
}

const healthPingTimeout = 2 * time.Second

// registerPublishRoute exposes POST /api/news only when an admin token is configured.
func (s *Server) registerPublishRoute() {
	if s.adminToken == "" {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "publish-article",
		Method:        stdhttp.MethodPost,
		Path:          "/api/news",
		Summary:       "Publish a news article",
		Tags:          []string{"news"},
		DefaultStatus: stdhttp.StatusCreated,
	}, s.publishArticleHandler)
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) publishArticleHandler(ctx context.Context, input *publishArticleInput) (*publishArticleOutput, error) {
	if !s.authorized(input.Authorization) {
		return nil, huma.Error401Unauthorized("a valid bearer token is required")
	}

	article, err := s.news.Publish(ctx, news.PublishInput{
		Title:       input.Body.Title,
		BodyHTML:    input.Body.BodyHTML,
		Excerpt:     input.Body.Excerpt,
		PublishedAt: input.Body.PublishedAt,
	})
	if err != nil {
		if eris.Is(err, news.ErrInvalidArticle) {
			return nil, huma.Error400BadRequest("invalid article", err)
		}
		s.recordError(ctx, err, "publishing article", logrus.Fields{"title": input.Body.Title})
		return nil, huma.Error500InternalServerError(errorFallbackMessage)
	}

	out := &publishArticleOutput{Status: stdhttp.StatusCreated, Location: article.Path()}
	out.Body.ID = article.ID
	out.Body.Slug = article.Slug()
	out.Body.Path = article.Path()
	out.Body.Excerpt = article.Excerpt
	return out, nil
}

func (s *Server) authorized(header string) bool {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Summarizer = "ready"

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	if err := database.Ping(pingCtx, s.db); err != nil {
		s.recordError(ctx, err, "pinging database", nil)
		resp.Status = stdhttp.StatusServiceUnavailable
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
	}

	if !s.news.SummarizerReady() {
		resp.Body.Summarizer = "disabled"
	}

	return resp, nil
}
