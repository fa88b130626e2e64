package blob

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no blob exists for an id.
var ErrNotFound = errors.New("blob: not found")

// ValidationReason classifies why an upload was refused.
type ValidationReason string

const (
	ReasonEmpty           ValidationReason = "empty"
	ReasonTooLarge        ValidationReason = "too_large"
	ReasonUnsupportedType ValidationReason = "unsupported_type"
	ReasonContentMismatch ValidationReason = "content_mismatch"
)

// ValidationError reports a client mistake. Nothing has been written when it is returned.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return "blob: " + e.Message
}

func invalid(reason ValidationReason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// StorageError reports a failure of the underlying storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blob: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
