package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// Record carries the storage identity every collection shares. ID holds a
// Mongo ObjectID in hex or a UUID when the relational backend is used.
type Record struct {
	ID        string    `json:"_id" bson:"_id,omitempty" gorm:"column:id;primaryKey;type:varchar(64)"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt,omitempty" gorm:"column:created_at;index"`
}

func (r *Record) RecordID() string { return r.ID }

// ClearRecord drops any identity a client sent along with a new record.
func (r *Record) ClearRecord() { *r = Record{} }

func (r *Record) SetRecordID(id string, createdAt time.Time) {
	r.ID = id
	if r.CreatedAt.IsZero() {
		r.CreatedAt = createdAt
	}
}

// Entity is implemented by pointers to every stored type.
type Entity interface {
	RecordID() string
	SetRecordID(id string, createdAt time.Time)
	ClearRecord()
	CollectionName() string
}
