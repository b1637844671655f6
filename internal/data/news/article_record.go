package news

import (
	"time"

	"gorm.io/gorm"
)

// ArticleRecord represents a news article persisted in the database.
type ArticleRecord struct {
	gorm.Model
	Title       string    `gorm:"size:200;not null"`
	Excerpt     string    `gorm:"type:text"`
	BodyHTML    string    `gorm:"type:text;not null"`
	PublishedAt time.Time `gorm:"index:idx_articles_published_at;not null"`
}

// TableName defines the table name for the article model.
func (ArticleRecord) TableName() string {
	return "articles"
}
