package migrations

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	careersdata "fintide/site/internal/data/careers"
	"fintide/site/internal/data/database"
	newsdata "fintide/site/internal/data/news"
)

func TestMigrateRequiresDatabase(t *testing.T) {
	t.Parallel()

	if err := Migrate(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	t.Parallel()

	gormDB := openDatabase(t)

	for _, table := range []string{"articles", "jobs", "subscribers"} {
		if !gormDB.Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist", table)
		}
	}
}

func TestSeedContentIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gormDB := openDatabase(t)
	logger := silentLogger()

	jobs, err := careersdata.NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("careers repository: %v", err)
	}
	articles, err := newsdata.NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("news repository: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := SeedContent(ctx, jobs, articles, logger); err != nil {
			t.Fatalf("SeedContent run %d returned error: %v", i, err)
		}
	}

	jobCount, err := jobs.Count(ctx)
	if err != nil {
		t.Fatalf("counting jobs: %v", err)
	}
	if jobCount != int64(len(DefaultJobs)) {
		t.Fatalf("expected %d jobs, got %d", len(DefaultJobs), jobCount)
	}

	articleCount, err := articles.Count(ctx)
	if err != nil {
		t.Fatalf("counting articles: %v", err)
	}
	if articleCount != int64(len(DefaultArticles)) {
		t.Fatalf("expected %d articles, got %d", len(DefaultArticles), articleCount)
	}

	open, err := jobs.ListOpen(ctx)
	if err != nil {
		t.Fatalf("listing open jobs: %v", err)
	}
	if len(open) != len(DefaultJobs) {
		t.Fatalf("expected all seeded jobs to be open, got %d", len(open))
	}
}

func TestSeedContentRequiresRepositories(t *testing.T) {
	t.Parallel()

	if err := SeedContent(context.Background(), nil, nil, nil); err == nil {
		t.Fatalf("expected error when repositories are nil")
	}
}

func openDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "site.db")})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := database.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	if err := Migrate(context.Background(), gormDB, silentLogger()); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	return gormDB
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
