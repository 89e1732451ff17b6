package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"eduportal/internal/domain"
)

type entityPtr[T any] interface {
	*T
	domain.Entity
}

// Collection stores one entity type in its own table. It mirrors the
// document-store operations the handlers need: list, get, insert,
// field replacement, delete and counter increments.
type Collection[T any, P entityPtr[T]] struct {
	db *gorm.DB
}

func NewCollection[T any, P entityPtr[T]](db *gorm.DB) *Collection[T, P] {
	return &Collection[T, P]{db: db}
}

// List returns every record, newest first.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := c.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Collection[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	id := p.RecordID()
	if id == "" {
		id = uuid.NewString()
	}
	p.SetRecordID(id, time.Now().UTC())
	return translateError(c.db.WithContext(ctx).Create(item).Error)
}

// Replace overwrites every column of the record with item.
func (c *Collection[T, P]) Replace(ctx context.Context, id string, item *T) error {
	P(item).SetRecordID(id, time.Now().UTC())
	tx := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select("*").Updates(item)
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	tx := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Increment adds one to a numeric field. field uses the JSON/BSON name;
// callers allow-list it.
func (c *Collection[T, P]) Increment(ctx context.Context, id, field string) error {
	column := c.db.NamingStrategy.ColumnName("", field)
	tx := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrConflict
	}
	return err
}
