package intake

import (
	"context"

	"eduportal/internal/domain"
	"eduportal/internal/storage"
)

type LeadRepository interface {
	GetByNumericID(ctx context.Context, id int64) (*domain.Lead, error)
	Save(ctx context.Context, lead *domain.Lead) error
}

type CounselorRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Counselor, error)
}

// FileStore gates and stages uploads.
type FileStore interface {
	Check(name, mediaType string, size int64) error
	Begin() (*storage.Batch, error)
}

type Recorder interface {
	IntakeOutcome(outcome string)
	StoredBytes(n int64)
}
