package newsletter

import "context"

// Repository defines persistence operations supported by the newsletter domain.
// Create returns ErrDuplicateEmail when the address is already stored.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	Create(ctx context.Context, subscriber *Subscriber) error
	Count(ctx context.Context) (int64, error)
}
