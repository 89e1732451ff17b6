package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"eduportal/internal/domain"
)

type CounselorRepository struct {
	*Collection[domain.Counselor, *domain.Counselor]
	db *gorm.DB
}

func NewCounselorRepository(db *gorm.DB) *CounselorRepository {
	return &CounselorRepository{
		Collection: NewCollection[domain.Counselor](db),
		db:         db,
	}
}

func (r *CounselorRepository) GetByUsername(ctx context.Context, username string) (*domain.Counselor, error) {
	var c domain.Counselor
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CounselorRepository) GetByNumericID(ctx context.Context, id int64) (*domain.Counselor, error) {
	var c domain.Counselor
	err := r.db.WithContext(ctx).Where("counselor_id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
