package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fintide/site/internal/domain/careers"
	"fintide/site/internal/domain/news"
	"fintide/site/internal/domain/newsletter"
)

// Options configures the HTTP server wiring.
type Options struct {
	NewsService       news.Service
	CareersService    careers.Service
	NewsletterService newsletter.Service
	Database          *gorm.DB
	// AdminToken enables POST /api/news when set.
	AdminToken  string
	Version     string
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
	// TrustedProxies lists proxy addresses or CIDR ranges whose
	// X-Forwarded-For header identifies the client. Empty means none.
	TrustedProxies []string
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	news        news.Service
	careers     careers.Service
	newsletter  newsletter.Service
	db          *gorm.DB
	adminToken  string
	logger      *logrus.Logger
	sentry      *sentry.Hub
	rateLimiter *RateLimiter
	proxies     trustedProxies
	assets      *staticAssets
}

const defaultAPIVersion = "1.0.0"

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.NewsService == nil {
		return nil, eris.New("news service is required")
	}
	if opts.CareersService == nil {
		return nil, eris.New("careers service is required")
	}
	if opts.NewsletterService == nil {
		return nil, eris.New("newsletter service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	proxies, err := parseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}

	assets, err := newStaticAssets()
	if err != nil {
		return nil, err
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = defaultAPIVersion
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Fintide", version)

	api := humago.New(mux, config)

	srv := &Server{
		api:         api,
		mux:         mux,
		news:        opts.NewsService,
		careers:     opts.CareersService,
		newsletter:  opts.NewsletterService,
		db:          opts.Database,
		adminToken:  strings.TrimSpace(opts.AdminToken),
		logger:      opts.Logger,
		sentry:      opts.SentryHub,
		rateLimiter: NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL),
		proxies:     proxies,
		assets:      assets,
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the server as an http.Handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
		s.notFoundMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", s.assets.serveFavicon)
	s.mux.Handle("GET /static/", s.assets.handler())

	s.registerLandingRoute()
	s.registerNewsRoutes()
	s.registerCareersRoutes()
	s.registerNewsletterRoutes()
	s.registerPublishRoute()
	s.registerHealthRoute()
}

// ServeHTTP dispatches to the mux.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
