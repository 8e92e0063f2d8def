package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for IDs or file names that cannot name a
	// record or a file inside one.
	ErrInvalidName = errors.New("invalid name")
)

// StorageError wraps an I/O failure with the operation and document ID.
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s (document %s): %v", e.Op, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
