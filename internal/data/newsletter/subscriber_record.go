package newsletter

import "gorm.io/gorm"

// SubscriberRecord represents a newsletter subscriber persisted in the database.
type SubscriberRecord struct {
	gorm.Model
	Email  string `gorm:"size:254;uniqueIndex:idx_subscribers_email;not null"`
	Source string `gorm:"size:32;not null"`
}

// TableName defines the table name for the subscriber model.
func (SubscriberRecord) TableName() string {
	return "subscribers"
}
