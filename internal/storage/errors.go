package storage

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type, only pdf, jpg, jpeg and png are allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidName     = errors.New("invalid file name")
	ErrBatchClosed     = errors.New("upload batch already closed")
)

// RejectedError names the file the gate refused.
type RejectedError struct {
	Name string
	Err  error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

func reject(name string, err error) error {
	return &RejectedError{Name: name, Err: err}
}
