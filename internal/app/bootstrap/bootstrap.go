package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	datacareers "fintide/site/internal/data/careers"
	"fintide/site/internal/data/database"
	"fintide/site/internal/data/migrations"
	datanews "fintide/site/internal/data/news"
	datanewsletter "fintide/site/internal/data/newsletter"
	domaincareers "fintide/site/internal/domain/careers"
	domainllm "fintide/site/internal/domain/llm"
	domainnews "fintide/site/internal/domain/news"
	domainnewsletter "fintide/site/internal/domain/newsletter"
	"fintide/site/internal/infrastructure/llm/openai"
	"fintide/site/internal/platform/config"
	applog "fintide/site/internal/platform/log"
	presentationhttp "fintide/site/internal/presentation/http"
)

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	Version   string
}

type Result struct {
	NewsService       domainnews.Service
	CareersService    domaincareers.Service
	NewsletterService domainnewsletter.Service
	HTTPServer        *presentationhttp.Server
	Database          *gorm.DB
	Cleanup           func() error
}

// Build composes the Fintide site layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	db, err := database.Open(database.Options{Path: deps.Config.DBPath, Logrus: deps.Logger})
	if err != nil {
		return Result{}, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := migrations.Migrate(ctx, db, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "running migrations"))
	}

	newsRepo, err := datanews.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating news repository"))
	}

	careersRepo, err := datacareers.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating careers repository"))
	}

	newsletterRepo, err := datanewsletter.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating newsletter repository"))
	}

	if deps.Config.SeedContent {
		if err := migrations.SeedContent(ctx, careersRepo, newsRepo, deps.Logger); err != nil {
			return closeOnError(eris.Wrap(err, "seeding default content"))
		}
	}

	summarizer, err := buildSummarizer(deps)
	if err != nil {
		return closeOnError(err)
	}

	newsService, err := domainnews.NewService(newsRepo, summarizer, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating news service"))
	}

	careersService, err := domaincareers.NewService(careersRepo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating careers service"))
	}

	newsletterService, err := domainnewsletter.NewService(newsletterRepo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating newsletter service"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		NewsService:       newsService,
		CareersService:    careersService,
		NewsletterService: newsletterService,
		Database:          db,
		AdminToken:        deps.Config.AdminToken,
		Version:           deps.Version,
		Logger:            deps.Logger,
		SentryHub:         deps.SentryHub,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             deps.Config.RateLimit.Burst,
			RequestsPerSecond: deps.Config.RateLimit.RequestsPerSecond,
			ClientTTL:         deps.Config.RateLimit.ClientTTL,
		},
		TrustedProxies: deps.Config.RateLimit.TrustedProxies,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	logContentCounts(ctx, deps.Logger, newsService, newsletterService)

	cleanup := func() error {
		httpServer.Close()
		return database.Close(db)
	}

	return Result{
		NewsService:       newsService,
		CareersService:    careersService,
		NewsletterService: newsletterService,
		HTTPServer:        httpServer,
		Database:          db,
		Cleanup:           cleanup,
	}, nil
}

// buildSummarizer returns nil when the LLM is not configured; excerpts then fall back to plain text.
func buildSummarizer(deps Dependencies) (domainllm.Summarizer, error) {
	entry := applog.Component(deps.Logger, "bootstrap")

	if !deps.Config.LLMEnabled() {
		entry.Info("LLM_API_KEY or LLM_MODELS not set, article excerpts use plain text")
		return nil, nil
	}

	client, err := openai.NewClient(openai.ClientOptions{
		APIKey:  deps.Config.LLMAPIKey,
		BaseURL: deps.Config.LLMEndpoint,
		Logger:  deps.Logger,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating llm client")
	}

	summarizer, err := openai.NewSummarizer(openai.SummarizerOptions{
		Client: client,
		Models: deps.Config.LLMModels,
	})
	if err != nil {
		return nil, eris.Wrap(err, "initialising llm summarizer")
	}

	entry.WithFields(logrus.Fields{
		"base_url": client.BaseURL(),
		"models":   deps.Config.LLMModels,
	}).Info("llm summarizer enabled")

	return summarizer, nil
}

func logContentCounts(ctx context.Context, logger *logrus.Logger, news domainnews.Service, subscribers domainnewsletter.Service) {
	entry := applog.Component(logger, "bootstrap")

	articles, err := news.Count(ctx)
	if err != nil {
		entry.WithError(err).Warn("counting articles")
		return
	}

	signups, err := subscribers.Count(ctx)
	if err != nil {
		entry.WithError(err).Warn("counting newsletter subscribers")
		return
	}

	entry.WithFields(logrus.Fields{
		"articles":    articles,
		"subscribers": signups,
	}).Info("content loaded")
}
