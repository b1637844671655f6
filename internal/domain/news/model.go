package news

import (
	"time"

	"fintide/site/internal/platform/slug"
)

// Article represents a published news item within the domain layer.
type Article struct {
	ID          uint64
	Title       string
	Excerpt     string
	BodyHTML    string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// Slug returns the URL slug derived from the title.
func (a Article) Slug() string {
	return slug.Slugify(a.Title)
}

// Segment returns the "{id}-{slug}" part of the article URL.
func (a Article) Segment() string {
	return slug.Segment(a.ID, a.Title)
}

// Path returns the canonical article URL, e.g. /news/7-q3-earnings-up-12.
func (a Article) Path() string {
	return slug.ComposeArticleURL(a.ID, a.Title)
}

// PublishInput carries the fields accepted when publishing an article.
type PublishInput struct {
	Title       string
	BodyHTML    string
	Excerpt     string
	PublishedAt time.Time
}
