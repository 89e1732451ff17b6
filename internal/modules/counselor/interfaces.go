package counselor

import (
	"context"

	"eduportal/internal/domain"
)

// Repository is satisfied by both the SQL and the Mongo counselor stores.
type Repository interface {
	List(ctx context.Context) ([]domain.Counselor, error)
	Get(ctx context.Context, id string) (*domain.Counselor, error)
	Create(ctx context.Context, c *domain.Counselor) error
	Replace(ctx context.Context, id string, c *domain.Counselor) error
	Delete(ctx context.Context, id string) error
	GetByNumericID(ctx context.Context, id int64) (*domain.Counselor, error)
	GetByUsername(ctx context.Context, username string) (*domain.Counselor, error)
}
