package attrfs

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Class operations, usually wrapped in *PathError.
var (
	// ErrExists indicates a node with the same name is already published.
	ErrExists = errors.New("file exists")

	// ErrNotExist indicates the path names no node or attribute.
	ErrNotExist = errors.New("no such file or directory")

	// ErrPermission indicates a read of a write-only attribute or a write of a
	// read-only one.
	ErrPermission = errors.New("permission denied")

	// ErrClosed indicates the class has been unregistered.
	ErrClosed = errors.New("class unregistered")

	// ErrInvalidName indicates a node name that cannot be published.
	ErrInvalidName = errors.New("invalid node name")
)

// PathError records the operation and path that failed.
type PathError struct {
	// Op is "read", "write", "list", "publish" or "unpublish".
	Op string
	// Path is relative to the class root.
	Path string
	// Err is the sentinel or the attribute callback's error.
	Err error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PathError) Unwrap() error {
	return e.Err
}
