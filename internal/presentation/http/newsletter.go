package http

import (
	"context"
	stdhttp "net/http"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"fintide/site/internal/domain/newsletter"
	"fintide/site/internal/presentation/http/templates"
)

type newsletterFormInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

type newsletterAPIInput struct {
	Body struct {
		Email  string `json:"email,omitempty" doc:"Address to subscribe" example:"treasury@bank.example"`
		Source string `json:"source,omitempty" doc:"Where the signup originated" example:"api"`
	}
}

type newsletterAPIOutput struct {
	Body struct {
		Status string `json:"status" enum:"subscribed,already_subscribed"`
	}
}

func (s *Server) registerNewsletterRoutes() {
	huma.Post(s.api, "/newsletter", s.newsletterFormHandler, htmlOperation(
		"Subscribe to the newsletter from an HTML form",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))

	huma.Post(s.api, "/api/newsletter", s.newsletterAPIHandler, func(op *huma.Operation) {
		op.Summary = "Subscribe to the newsletter"
		op.Tags = []string{"newsletter"}
	})
}

func (s *Server) newsletterFormHandler(ctx context.Context, input *newsletterFormInput) (*htmlResponse, error) {
	values, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, "We couldn't read the signup form."), nil
	}

	source := values.Get("source")
	result, err := s.newsletter.Subscribe(ctx, values.Get("email"), source)
	if err != nil {
		if eris.Is(err, newsletter.ErrInvalidEmail) {
			page := templates.ErrorPage(templates.ErrorPageData{
				StatusLabel: "Check your email address",
				Message:     "Please enter a valid email address, for example name@bank.example.",
				BackURL:     "/careers",
				BackLabel:   "Back to careers",
			})
			return s.renderPage(ctx, stdhttp.StatusBadRequest, page, nil), nil
		}
		return s.handleError(ctx, err, "subscribing to newsletter", logrus.Fields{"source": source}), nil
	}

	data := templates.SubscribedPageData{
		Email:             result.Subscriber.Email,
		AlreadySubscribed: result.AlreadySubscribed,
	}
	return s.renderPage(ctx, stdhttp.StatusOK, templates.SubscribedPage(data), nil), nil
}

func (s *Server) newsletterAPIHandler(ctx context.Context, input *newsletterAPIInput) (*newsletterAPIOutput, error) {
	source := strings.TrimSpace(input.Body.Source)
	if source == "" {
		source = "api"
	}

	result, err := s.newsletter.Subscribe(ctx, input.Body.Email, source)
	if err != nil {
		if eris.Is(err, newsletter.ErrInvalidEmail) {
			return nil, huma.Error400BadRequest("invalid email address")
		}
		s.recordError(ctx, err, "subscribing to newsletter", logrus.Fields{"source": source})
		return nil, huma.Error500InternalServerError(errorFallbackMessage)
	}

	out := &newsletterAPIOutput{}
	out.Body.Status = "subscribed"
	if result.AlreadySubscribed {
		out.Body.Status = "already_subscribed"
	}
	return out, nil
}
