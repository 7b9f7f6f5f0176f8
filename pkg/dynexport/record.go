package dynexport

import (
	"sync"
	"sync/atomic"
)

// Record is one exported resource: an immutable id and two integer fields.
//
// The attribute layer holds a *Record for field dispatch but never owns it.
// Once the registry releases a Record every accessor fails with ErrReleased.
type Record struct {
	id int64

	fieldA atomic.Int64
	fieldB atomic.Int64

	// life is held shared by accessors and exclusively by release.
	life     sync.RWMutex
	released bool
}

func newRecord(id int64) *Record {
	return &Record{id: id}
}

// ID returns the record's id. It stays valid after release.
func (r *Record) ID() int64 { return r.id }

// FieldA returns field_a.
func (r *Record) FieldA() (int64, error) {
	return r.load(&r.fieldA)
}

// SetFieldA stores field_a.
func (r *Record) SetFieldA(v int64) error {
	return r.store(&r.fieldA, v)
}

// FieldB returns field_b.
func (r *Record) FieldB() (int64, error) {
	return r.load(&r.fieldB)
}

// SetFieldB stores field_b.
func (r *Record) SetFieldB(v int64) error {
	return r.store(&r.fieldB, v)
}

// Released reports whether the registry has destroyed the record.
func (r *Record) Released() bool {
	r.life.RLock()
	defer r.life.RUnlock()
	return r.released
}

func (r *Record) load(f *atomic.Int64) (int64, error) {
	r.life.RLock()
	defer r.life.RUnlock()
	if r.released {
		return 0, ErrReleased
	}
	return f.Load(), nil
}

func (r *Record) store(f *atomic.Int64, v int64) error {
	r.life.RLock()
	defer r.life.RUnlock()
	if r.released {
		return ErrReleased
	}
	f.Store(v)
	return nil
}

// release invalidates the record after in-flight accessors finish.
// It reports whether this call did the release.
func (r *Record) release() bool {
	r.life.Lock()
	defer r.life.Unlock()
	if r.released {
		return false
	}
	r.released = true
	return true
}
