package http

import (
	"bytes"
	"context"
	"fmt"
	"html"
	stdhttp "net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"fintide/site/internal/domain/careers"
	"fintide/site/internal/domain/news"
	"fintide/site/internal/domain/newsletter"
	"fintide/site/internal/presentation/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, eris.Wrap(err, "error rendering component")
	}
	return buf.Bytes(), nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func newRedirectResponse(status int, location string) *htmlResponse {
	response := newHTMLResponse(status, nil)
	response.Location = location
	return response
}

// renderPage renders a full page, falling back to an error page when rendering fails.
func (s *Server) renderPage(ctx context.Context, status int, component templ.Component, fields logrus.Fields) *htmlResponse {
	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering page", fields)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render this page right now.")
	}

	return newHTMLResponse(status, body)
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

// classifyError maps domain errors to an HTTP status and a user facing message.
func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, news.ErrArticleNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that article. It may have been moved or removed."
	case eris.Is(err, careers.ErrJobNotFound):
		return stdhttp.StatusNotFound, "This position has been filled or no longer exists."
	case eris.Is(err, newsletter.ErrInvalidEmail):
		return stdhttp.StatusBadRequest, "Please enter a valid email address."
	case eris.Is(err, news.ErrInvalidArticle):
		return stdhttp.StatusBadRequest, "The article is missing a title or body."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

// handleError renders the error page for err. Only server-side failures are reported.
func (s *Server) handleError(ctx context.Context, err error, message string, fields logrus.Fields) *htmlResponse {
	status, userMessage := classifyError(err)
	if status >= stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	}
	return s.renderErrorResponse(ctx, status, userMessage)
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) *htmlResponse {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	template := templates.ErrorPage(templates.ErrorPageData{
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, template)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", html.EscapeString(label), html.EscapeString(message))
		return newHTMLResponse(status, []byte(fallback))
	}

	return newHTMLResponse(status, body)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
