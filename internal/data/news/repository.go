package news

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainnews "fintide/site/internal/domain/news"
)

// Repository persists news articles using a Gorm database connection.
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

var _ domainnews.Repository = (*Repository)(nil)

// GetByID returns the article with the given id or nil when not found.
func (r *Repository) GetByID(ctx context.Context, id uint64) (*domainnews.Article, error) {
	// SQLite integer keys are signed; anything larger cannot exist.
	if id == 0 || id > math.MaxInt64 {
		return nil, nil
	}

	var record ArticleRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"article_id": id}, err, "fetching article by id")
		return nil, eris.Wrapf(err, "fetching article by id: %d", id)
	}

	return toDomainArticle(&record), nil
}

// Create stores a new article and fills in its generated id and timestamps.
func (r *Repository) Create(ctx context.Context, article *domainnews.Article) error {
	if article == nil {
		return eris.New("article is nil")
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		return eris.New("article title is required")
	}

	record := &ArticleRecord{
		Title:       title,
		Excerpt:     strings.TrimSpace(article.Excerpt),
		BodyHTML:    strings.TrimSpace(article.BodyHTML),
		PublishedAt: article.PublishedAt.UTC(),
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"title": title}, err, "creating article")
		return eris.Wrapf(err, "creating article: %s", title)
	}

	article.ID = uint64(record.ID)
	article.Title = title
	article.CreatedAt = record.CreatedAt
	return nil
}

// ListRecent returns up to limit articles ordered by publication time, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domainnews.Article, error) {
	var records []ArticleRecord

	query := r.db.WithContext(ctx).Order("published_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		r.logError(logrus.Fields{"limit": limit}, err, "listing recent articles")
		return nil, eris.Wrap(err, "listing recent articles")
	}

	articles := make([]domainnews.Article, 0, len(records))
	for i := range records {
		articles = append(articles, *toDomainArticle(&records[i]))
	}

	return articles, nil
}

// Count returns the total number of stored articles.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&ArticleRecord{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting articles")
		return 0, eris.Wrap(err, "counting articles")
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

func toDomainArticle(record *ArticleRecord) *domainnews.Article {
	if record == nil {
		return nil
	}

	return &domainnews.Article{
		ID:          uint64(record.ID),
		Title:       strings.TrimSpace(record.Title),
		Excerpt:     strings.TrimSpace(record.Excerpt),
		BodyHTML:    strings.TrimSpace(record.BodyHTML),
		PublishedAt: record.PublishedAt.UTC(),
		CreatedAt:   record.CreatedAt,
	}
}
