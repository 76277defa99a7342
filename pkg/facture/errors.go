package facture

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingFields indicates a creation request without a file,
	// price or category
	ErrMissingFields = errors.New("missing required fields or file")

	// ErrBlobNotFound indicates a blob was not found in the store
	ErrBlobNotFound = errors.New("blob not found")

	// ErrFactureNotFound indicates a facture row was not found
	ErrFactureNotFound = errors.New("facture not found")
)

// StorageError represents an error related to blob store operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DatabaseError represents an error related to metadata store operations
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database operation %s failed: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
