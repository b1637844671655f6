package newsletter

import (
	"context"
	"net/mail"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service handles newsletter signups.
type Service interface {
	Subscribe(ctx context.Context, email, source string) (Result, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

var (
	// ErrInvalidEmail indicates the address could not be accepted.
	ErrInvalidEmail = eris.New("invalid email address")
	// ErrDuplicateEmail is returned by repositories when the address already exists.
	ErrDuplicateEmail = eris.New("email already subscribed")
)

const (
	maxEmailLength = 254
	maxSourceLen   = 32
	defaultSource  = "web"
)

// NewService wires the newsletter service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("newsletter repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

// Subscribe stores the address. Subscribing an address twice is not an error;
// the result reports AlreadySubscribed instead.
func (s *service) Subscribe(ctx context.Context, email, source string) (Result, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return Result{}, err
	}

	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		source = defaultSource
	}
	if len(source) > maxSourceLen {
		source = source[:maxSourceLen]
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		s.recordError(logrus.Fields{"source": source}, err, "looking up subscriber")
		return Result{}, eris.Wrap(err, "looking up subscriber")
	}
	if existing != nil {
		return Result{Subscriber: *existing, AlreadySubscribed: true}, nil
	}

	subscriber := &Subscriber{Email: normalized, Source: source}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		if eris.Is(err, ErrDuplicateEmail) {
			// Lost a race with a concurrent signup for the same address.
			return Result{Subscriber: *subscriber, AlreadySubscribed: true}, nil
		}
		s.recordError(logrus.Fields{"source": source}, err, "creating subscriber")
		return Result{}, eris.Wrap(err, "creating subscriber")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"subscriber_id": subscriber.ID,
			"source":        source,
		}).Info("newsletter subscription created")
	}

	return Result{Subscriber: *subscriber}, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.recordError(nil, err, "counting subscribers")
		return 0, eris.Wrap(err, "counting subscribers")
	}
	return count, nil
}

// NormalizeEmail trims and lowercases the address and rejects anything that is
// not a bare "local@domain" address.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", eris.Wrap(ErrInvalidEmail, "email is required")
	}
	if len(trimmed) > maxEmailLength {
		return "", eris.Wrapf(ErrInvalidEmail, "email exceeds %d characters", maxEmailLength)
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Name != "" || addr.Address != trimmed {
		return "", eris.Wrapf(ErrInvalidEmail, "cannot parse %q", trimmed)
	}

	at := strings.LastIndexByte(trimmed, '@')
	if at <= 0 || !strings.Contains(trimmed[at+1:], ".") {
		return "", eris.Wrapf(ErrInvalidEmail, "domain of %q is not qualified", trimmed)
	}

	return trimmed, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
