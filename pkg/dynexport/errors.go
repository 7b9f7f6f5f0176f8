package dynexport

import (
	"errors"
	"fmt"
)

// Sentinel errors. Operation failures wrap one of these in an *OpError.
var (
	// ErrInvalidInput indicates endpoint text that is not an integer, or an
	// attribute value out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAllocationFailed indicates the registry is at capacity.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrPublishFailed indicates the attribute layer rejected the record's
	// node, including the case where the id is already exported.
	ErrPublishFailed = errors.New("publish failed")

	// ErrNotFound indicates no live record has the id.
	ErrNotFound = errors.New("not exported")

	// ErrUnpublishFailed indicates the attribute layer could not remove a node.
	ErrUnpublishFailed = errors.New("unpublish failed")

	// ErrReleased indicates access to a record that has been destroyed.
	ErrReleased = errors.New("record released")

	// ErrClosed indicates the registry has been shut down.
	ErrClosed = errors.New("registry shut down")
)

// OpError wraps an error with the operation and record id it concerns.
type OpError struct {
	// Op is "export" or "unexport".
	Op string
	// ID is the record id.
	ID int64
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OpError) Unwrap() error {
	return e.Err
}
