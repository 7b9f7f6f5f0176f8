// Package journal provides an append-only audit trail of registry lifecycle
// operations.
//
// The registry appends one Entry per export, unexport and shutdown outcome.
// Nothing is ever read back to rebuild registry state; the journal exists for
// operators and tests.
package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Operations recorded in the journal.
const (
	OpExport   = "export"
	OpUnexport = "unexport"
	OpShutdown = "shutdown"
)

// Entry is one journal record.
type Entry struct {
	// ID is unique across sessions.
	ID string `json:"id"`
	// Session identifies one registry lifetime.
	Session string `json:"session"`
	// Sequence is assigned by the store, starting at 1 within a session.
	Sequence int64 `json:"sequence"`
	// Op is one of OpExport, OpUnexport, OpShutdown.
	Op string `json:"op"`
	// RecordID is the record the operation targeted.
	RecordID int64 `json:"record_id"`
	// OK is false when the operation was rejected.
	OK bool `json:"ok"`
	// Error holds the rejection reason.
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry creates an entry with a fresh ID and the current time.
// A non-nil err marks the entry as rejected.
func NewEntry(session, op string, recordID int64, err error) Entry {
	e := Entry{
		ID:        uuid.New().String(),
		Session:   session,
		Op:        op,
		RecordID:  recordID,
		OK:        err == nil,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores e, assigning its Sequence. The stored sequence is returned.
	Append(e Entry) (int64, error)

	// List returns a session's entries ordered by sequence.
	// Returns an empty slice (not error) for an unknown session.
	List(session string) ([]Entry, error)

	// Close releases any resources. Appends after Close fail with
	// ErrStoreClosed. Close is idempotent.
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("journal store closed")
