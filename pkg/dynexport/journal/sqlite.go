package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists entries to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates a journal database.
// The path should be a file path (e.g., "./journal.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			session TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			op TEXT NOT NULL,
			record_id INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL,
			UNIQUE (session, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var seq int64
	err := s.db.QueryRow(`
		INSERT INTO journal (id, session, sequence, op, record_id, ok, error, timestamp)
		VALUES (
			?, ?,
			COALESCE((SELECT MAX(sequence) FROM journal WHERE session = ?), 0) + 1,
			?, ?, ?, ?, ?
		)
		RETURNING sequence
	`, e.ID, e.Session, e.Session, e.Op, e.RecordID, e.OK, e.Error,
		e.Timestamp.UTC().Format(time.RFC3339Nano)).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("append journal entry: %w", err)
	}
	return seq, nil
}

// List implements Store.
func (s *SQLiteStore) List(session string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, sequence, op, record_id, ok, error, timestamp
		FROM journal
		WHERE session = ?
		ORDER BY sequence
	`, session)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e := Entry{Session: session}
		var timestamp string
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Op, &e.RecordID, &e.OK, &e.Error, &timestamp); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of journal entry %d: %w", e.Sequence, err)
		}
		e.Timestamp = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
