package bootstrap

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"fintide/site/internal/platform/config"
)

func TestBuildWiresSiteWithoutLLM(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Config{
		DBPath:      filepath.Join(t.TempDir(), "data", "site.db"),
		SeedContent: true,
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             10,
			ClientTTL:         time.Minute,
		},
	}

	result, err := Build(context.Background(), Dependencies{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() {
		if cleanupErr := result.Cleanup(); cleanupErr != nil {
			t.Errorf("cleanup failed: %v", cleanupErr)
		}
	})

	if result.NewsService.SummarizerReady() {
		t.Fatalf("expected summarizer to be disabled without LLM configuration")
	}

	count, err := result.NewsService.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected seeded articles")
	}

	rec := httptest.NewRecorder()
	result.HTTPServer.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/careers", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected careers page, got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Site Reliability Engineer") {
		t.Fatalf("expected seeded job on careers page")
	}

	rec = httptest.NewRecorder()
	result.HTTPServer.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/news", strings.NewReader(`{}`)))
	if rec.Code == stdhttp.StatusCreated || rec.Code == stdhttp.StatusUnauthorized {
		t.Fatalf("expected publish route to be absent without admin token, got %d", rec.Code)
	}
}

func TestBuildSkipsSeedWhenDisabled(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Config{
		DBPath: filepath.Join(t.TempDir(), "site.db"),
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             1,
			ClientTTL:         time.Minute,
		},
	}

	result, err := Build(context.Background(), Dependencies{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = result.Cleanup()
	})

	jobs, err := result.CareersService.ListOpenings(context.Background())
	if err != nil {
		t.Fatalf("ListOpenings returned error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs without seeding, got %d", len(jobs))
	}
}

func TestBuildRejectsInvalidRateLimit(t *testing.T) {
	t.Parallel()

	cfg := config.Config{DBPath: filepath.Join(t.TempDir(), "site.db")}

	if _, err := Build(context.Background(), Dependencies{Config: cfg}); err == nil {
		t.Fatalf("expected error for zero rate limit settings")
	}
}
