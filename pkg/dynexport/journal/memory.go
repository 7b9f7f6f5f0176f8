package journal

import "sync"

// MemoryStore keeps entries in memory.
// Data is lost when the process exits. Closing the store stops Appends but
// leaves the entries readable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Entry
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Entry),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(e Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	e.Sequence = int64(len(m.sessions[e.Session]) + 1)
	m.sessions[e.Session] = append(m.sessions[e.Session], e)
	return e.Sequence, nil
}

// List implements Store.
func (m *MemoryStore) List(session string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.sessions[session]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
