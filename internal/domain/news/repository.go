package news

import "context"

// Repository defines persistence operations supported by the news domain.
type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Article, error)
	Create(ctx context.Context, article *Article) error
	ListRecent(ctx context.Context, limit int) ([]Article, error)
	Count(ctx context.Context) (int64, error)
}
