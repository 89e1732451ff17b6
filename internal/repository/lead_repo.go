package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"eduportal/internal/domain"
)

type LeadRepository struct {
	*Collection[domain.Lead, *domain.Lead]
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{
		Collection: NewCollection[domain.Lead](db),
		db:         db,
	}
}

func (r *LeadRepository) GetByNumericID(ctx context.Context, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("lead_id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByPhone returns the oldest lead with the phone number. Phone is
// indexed but not unique.
func (r *LeadRepository) GetByPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("phone = ?", phone).Order("created_at ASC").First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Save writes every field of lead if its stored version still equals
// lead.Version, then bumps the version.
func (r *LeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	next := *lead
	next.Version = lead.Version + 1

	tx := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ? AND version = ?", lead.ID, lead.Version).
		Select("*").
		Updates(&next)
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		if _, err := r.Get(ctx, lead.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}

	lead.Version = next.Version
	return nil
}
