package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type middleware = func(huma.Context, func(huma.Context))

const (
	rateLimitMessage = "You're sending requests a bit too quickly. Please wait a moment and try again."
	notFoundMessage  = "We couldn't find that page."
	panicMessage     = "Something went wrong on our side. The team has been notified."
	sentryFlushWait  = 2 * time.Second
)

// sentryMiddleware gives every request its own hub so scope tags do not leak between requests.
func (s *Server) sentryMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.sentry == nil {
			next(ctx)
			return
		}

		hub := s.sentry.Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("http.method", ctx.Method())
			if op := ctx.Operation(); op != nil {
				scope.SetTag("http.route", op.Path)
			}
			if req, _ := humago.Unwrap(ctx); req != nil {
				scope.SetRequest(req)
			}
		})
		defer hub.Flush(sentryFlushWait)

		next(huma.WithContext(ctx, sentry.SetHubOnContext(ctx.Context(), hub)))
	}
}

// recoveryMiddleware turns a handler panic into the HTML error page.
func (s *Server) recoveryMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}

			if s.logger != nil {
				s.logger.WithFields(s.requestFields(ctx)).WithField("error", err.Error()).Error("panic recovered")
			}

			if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
				hub.RecoverWithContext(ctx.Context(), recovered)
			} else if s.sentry != nil {
				s.sentry.CaptureException(err)
			}

			writeHTML(ctx, s.renderErrorResponse(ctx.Context(), stdhttp.StatusInternalServerError, panicMessage))
		}()

		next(ctx)
	}
}

func (s *Server) requestIDMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := uuid.NewString()
		ctx.SetHeader("X-Request-ID", requestID)

		if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
			hub.Scope().SetTag("request_id", requestID)
		}

		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), requestIDContextKey, requestID)))
	}
}

// rateLimitMiddleware applies the per-client token bucket. The client key is
// the connection address unless the peer is a configured trusted proxy.
func (s *Server) rateLimitMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		req, _ := humago.Unwrap(ctx)
		if s.rateLimiter == nil || req == nil {
			next(ctx)
			return
		}

		client := s.proxies.clientIP(req)
		if s.rateLimiter.Allow(client) {
			next(ctx)
			return
		}

		if s.logger != nil {
			s.logger.WithFields(s.requestFields(ctx)).WithField("client", client).Warn("request rate limited")
		}

		ctx.SetHeader("Retry-After", "1")
		writeHTML(ctx, s.renderErrorResponse(ctx.Context(), stdhttp.StatusTooManyRequests, rateLimitMessage))
	}
}

func (s *Server) loggingMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.logger == nil {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = stdhttp.StatusOK
		}

		entry := s.logger.WithFields(s.requestFields(ctx)).WithFields(logrus.Fields{
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		})

		switch {
		case status >= stdhttp.StatusInternalServerError:
			entry.Error("request failed")
		case status >= stdhttp.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// notFoundMiddleware answers unknown paths. The landing page is registered on
// "GET /", which the ServeMux also matches for every path nothing else claims.
// Running inside the chain keeps those requests rate limited and logged.
func (s *Server) notFoundMiddleware() middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		req, _ := humago.Unwrap(ctx)
		if op == nil || req == nil || op.Path != "/" || req.URL.Path == "/" {
			next(ctx)
			return
		}

		writeHTML(ctx, s.renderErrorResponse(ctx.Context(), stdhttp.StatusNotFound, notFoundMessage))
	}
}

func (s *Server) requestFields(ctx huma.Context) logrus.Fields {
	fields := logrus.Fields{"method": ctx.Method()}

	if op := ctx.Operation(); op != nil {
		fields["route"] = op.Path
	}
	if req, _ := humago.Unwrap(ctx); req != nil {
		fields["path"] = req.URL.Path
		fields["remote_addr"] = req.RemoteAddr
	}
	if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
		fields["request_id"] = requestID
	}

	return fields
}

// writeHTML writes a rendered page directly, bypassing the operation handler.
func writeHTML(ctx huma.Context, resp *htmlResponse) {
	ctx.SetHeader("Content-Type", resp.ContentType)
	ctx.SetStatus(resp.Status)
	if ctx.Method() == stdhttp.MethodHead {
		return
	}
	_, _ = ctx.BodyWriter().Write(resp.Body)
}
