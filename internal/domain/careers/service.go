package careers

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"fintide/site/internal/platform/slug"
)

// Service exposes the job listings shown on the careers page.
type Service interface {
	ListOpenings(ctx context.Context) ([]Job, error)
	Resolve(ctx context.Context, segment string) (*Job, string, error)
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// ErrJobNotFound indicates the job does not exist, is closed, or the path carries no id.
var ErrJobNotFound = eris.New("job not found")

// NewService wires the careers service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("careers repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

func (s *service) ListOpenings(ctx context.Context) ([]Job, error) {
	jobs, err := s.repo.ListOpen(ctx)
	if err != nil {
		s.recordError(nil, err, "listing open jobs")
		return nil, eris.Wrap(err, "listing open jobs")
	}
	return jobs, nil
}

// Resolve looks up an open job by its "{id}-{slug}" segment and returns the
// canonical path as redirect target when the segment is stale.
func (s *service) Resolve(ctx context.Context, segment string) (*Job, string, error) {
	trimmed := strings.TrimSpace(segment)

	id, ok := slug.ParseArticleID(trimmed)
	if !ok {
		return nil, "", eris.Wrapf(ErrJobNotFound, "no job id in segment %q", trimmed)
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": id}, err, "retrieving job from repository")
		return nil, "", eris.Wrapf(err, "retrieving job: %d", id)
	}

	if job == nil || !job.Open {
		return nil, "", eris.Wrapf(ErrJobNotFound, "job %d", id)
	}

	if trimmed != job.Segment() {
		return job, job.Path(), nil
	}

	return job, "", nil
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
