package careers

import "gorm.io/gorm"

// JobRecord represents a job opening persisted in the database.
type JobRecord struct {
	gorm.Model
	Title           string `gorm:"size:200;not null"`
	Team            string `gorm:"size:100;not null;index:idx_jobs_team_title,priority:1"`
	Location        string `gorm:"size:100;not null"`
	EmploymentType  string `gorm:"size:50;not null"`
	DescriptionHTML string `gorm:"type:text;not null"`
	Open            bool   `gorm:"not null;index"`
}

// TableName defines the table name for the job model.
func (JobRecord) TableName() string {
	return "jobs"
}
