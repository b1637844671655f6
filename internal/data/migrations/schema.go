package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	careersdata "fintide/site/internal/data/careers"
	newsdata "fintide/site/internal/data/news"
	newsletterdata "fintide/site/internal/data/newsletter"
)

// Migrate applies the site schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "schema.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying site schema")
	}

	models := []any{
		&newsdata.ArticleRecord{},
		&careersdata.JobRecord{},
		&newsletterdata.SubscriberRecord{},
	}

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("site schema migration failed")
		}
		return eris.Wrap(err, "auto migrating site schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("site schema migration complete")
	}

	return nil
}
