package careers

import "context"

// Repository defines persistence operations supported by the careers domain.
type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Job, error)
	ListOpen(ctx context.Context) ([]Job, error)
}
