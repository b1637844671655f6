package careers

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domaincareers "fintide/site/internal/domain/careers"
)

// Repository persists job openings using a Gorm database connection.
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

var _ domaincareers.Repository = (*Repository)(nil)

// GetByID returns the job with the given id or nil when not found. Closed jobs are returned too.
func (r *Repository) GetByID(ctx context.Context, id uint64) (*domaincareers.Job, error) {
	if id == 0 || id > math.MaxInt64 {
		return nil, nil
	}

	var record JobRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"job_id": id}, err, "fetching job by id")
		return nil, eris.Wrapf(err, "fetching job by id: %d", id)
	}

	return toDomainJob(&record), nil
}

// ListOpen returns open jobs ordered by team, then title.
func (r *Repository) ListOpen(ctx context.Context) ([]domaincareers.Job, error) {
	var records []JobRecord

	err := r.db.WithContext(ctx).
		Where("open = ?", true).
		Order("team ASC").
		Order("title ASC").
		Find(&records).Error
	if err != nil {
		r.logError(nil, err, "listing open jobs")
		return nil, eris.Wrap(err, "listing open jobs")
	}

	jobs := make([]domaincareers.Job, 0, len(records))
	for i := range records {
		jobs = append(jobs, *toDomainJob(&records[i]))
	}

	return jobs, nil
}

// Create stores a job opening. It is used by the content seed.
func (r *Repository) Create(ctx context.Context, job *domaincareers.Job) error {
	if job == nil {
		return eris.New("job is nil")
	}

	title := strings.TrimSpace(job.Title)
	if title == "" {
		return eris.New("job title is required")
	}

	record := &JobRecord{
		Title:           title,
		Team:            strings.TrimSpace(job.Team),
		Location:        strings.TrimSpace(job.Location),
		EmploymentType:  strings.TrimSpace(job.EmploymentType),
		DescriptionHTML: strings.TrimSpace(job.DescriptionHTML),
		Open:            job.Open,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"title": title}, err, "creating job")
		return eris.Wrapf(err, "creating job: %s", title)
	}

	job.ID = uint64(record.ID)
	job.CreatedAt = record.CreatedAt
	return nil
}

// Count returns the number of stored jobs, open or closed.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&JobRecord{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting jobs")
		return 0, eris.Wrap(err, "counting jobs")
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

func toDomainJob(record *JobRecord) *domaincareers.Job {
	if record == nil {
		return nil
	}

	return &domaincareers.Job{
		ID:              uint64(record.ID),
		Title:           strings.TrimSpace(record.Title),
		Team:            strings.TrimSpace(record.Team),
		Location:        strings.TrimSpace(record.Location),
		EmploymentType:  strings.TrimSpace(record.EmploymentType),
		DescriptionHTML: strings.TrimSpace(record.DescriptionHTML),
		Open:            record.Open,
		CreatedAt:       record.CreatedAt,
	}
}
