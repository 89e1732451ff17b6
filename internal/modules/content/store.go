package content

import (
	"context"

	"eduportal/internal/domain"
)

// Store is the document-collection contract both backends implement.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	Replace(ctx context.Context, id string, item *T) error
	Delete(ctx context.Context, id string) error
	Increment(ctx context.Context, id, field string) error
}

// Stores groups one collection per content type.
type Stores struct {
	Hero       Store[domain.HeroSection]
	Stats      Store[domain.Stats]
	Services   Store[domain.Service]
	Partners   Store[domain.Partner]
	FAQs       Store[domain.FAQ]
	Contacts   Store[domain.Contact]
	Admins     Store[domain.Admin]
	Materials  Store[domain.Material]
	Categories Store[domain.Category]
	Blogs      Store[domain.Blog]
}
