package lead

import (
	"context"
	"os"

	"eduportal/internal/domain"
)

type LeadRepository interface {
	List(ctx context.Context) ([]domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) error
	GetByNumericID(ctx context.Context, id int64) (*domain.Lead, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Lead, error)
	Save(ctx context.Context, lead *domain.Lead) error
}

// FileOpener opens stored uploads for streaming.
type FileOpener interface {
	Open(name string) (*os.File, string, error)
}
