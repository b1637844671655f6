package newsletter

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainnewsletter "fintide/site/internal/domain/newsletter"
)

// Repository persists newsletter subscribers using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domainnewsletter.Repository = (*Repository)(nil)

// FindByEmail returns the subscriber for the address or nil when not found.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domainnewsletter.Subscriber, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, eris.New("email is required")
	}

	var record SubscriberRecord
	err := r.db.WithContext(ctx).First(&record, "email = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(nil, err, "fetching subscriber by email")
		return nil, eris.Wrap(err, "fetching subscriber by email")
	}

	return toDomainSubscriber(&record), nil
}

// Create stores a new subscriber. It returns ErrDuplicateEmail when the address already exists.
func (r *Repository) Create(ctx context.Context, subscriber *domainnewsletter.Subscriber) error {
	if subscriber == nil {
		return eris.New("subscriber is nil")
	}

	email := strings.TrimSpace(subscriber.Email)
	if email == "" {
		return eris.New("subscriber email is required")
	}

	record := &SubscriberRecord{Email: email, Source: strings.TrimSpace(subscriber.Source)}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return eris.Wrap(domainnewsletter.ErrDuplicateEmail, "creating subscriber")
		}
		r.logError(logrus.Fields{"source": record.Source}, err, "creating subscriber")
		return eris.Wrap(err, "creating subscriber")
	}

	subscriber.ID = uint64(record.ID)
	subscriber.Email = email
	subscriber.CreatedAt = record.CreatedAt
	return nil
}

// Count returns the number of subscribers.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&SubscriberRecord{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting subscribers")
		return 0, eris.Wrap(err, "counting subscribers")
	}

	return count, nil
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

func toDomainSubscriber(record *SubscriberRecord) *domainnewsletter.Subscriber {
	if record == nil {
		return nil
	}

	return &domainnewsletter.Subscriber{
		ID:        uint64(record.ID),
		Email:     strings.TrimSpace(record.Email),
		Source:    strings.TrimSpace(record.Source),
		CreatedAt: record.CreatedAt,
	}
}
