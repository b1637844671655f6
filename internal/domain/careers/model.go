package careers

import (
	"time"

	"fintide/site/internal/platform/slug"
)

// PathPrefix is the URL prefix for job pages.
const PathPrefix = "/careers"

// Job represents an opening listed on the careers page.
type Job struct {
	ID              uint64
	Title           string
	Team            string
	Location        string
	EmploymentType  string
	DescriptionHTML string
	Open            bool
	CreatedAt       time.Time
}

// Segment returns the "{id}-{slug}" part of the job URL.
func (j Job) Segment() string {
	return slug.Segment(j.ID, j.Title)
}

// Path returns the canonical job URL, e.g. /careers/3-backend-engineer.
func (j Job) Path() string {
	return slug.ComposePath(PathPrefix, j.ID, j.Title)
}
