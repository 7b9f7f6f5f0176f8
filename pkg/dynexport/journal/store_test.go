package journal_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/dynexport/pkg/dynexport/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) journal.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Append_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		seq, err := store.Append(journal.NewEntry("s1", journal.OpExport, 7, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)

		seq, err = store.Append(journal.NewEntry("s1", journal.OpUnexport, 7, errors.New("not found")))
		require.NoError(t, err)
		assert.Equal(t, int64(2), seq)

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, int64(1), entries[0].Sequence)
		assert.Equal(t, journal.OpExport, entries[0].Op)
		assert.Equal(t, int64(7), entries[0].RecordID)
		assert.True(t, entries[0].OK)
		assert.Empty(t, entries[0].Error)
		assert.NotEmpty(t, entries[0].ID)
		assert.False(t, entries[0].Timestamp.IsZero())

		assert.Equal(t, int64(2), entries[1].Sequence)
		assert.False(t, entries[1].OK)
		assert.Equal(t, "not found", entries[1].Error)
	})

	t.Run(name+"/Sessions_are_independent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.Append(journal.NewEntry("a", journal.OpExport, 1, nil))
		require.NoError(t, err)
		seq, err := store.Append(journal.NewEntry("b", journal.OpExport, 1, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		entries, err := store.List("unknown")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())

		_, err := store.Append(journal.NewEntry("s", journal.OpShutdown, 0, nil))
		assert.ErrorIs(t, err, journal.ErrStoreClosed)
	})

	t.Run(name+"/Concurrent_Append", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		const goroutines = 20
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := store.Append(journal.NewEntry("c", journal.OpExport, id, nil))
				assert.NoError(t, err)
			}(int64(i))
		}
		wg.Wait()

		entries, err := store.List("c")
		require.NoError(t, err)
		require.Len(t, entries, goroutines)
		for i, e := range entries {
			assert.Equal(t, int64(i+1), e.Sequence)
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) journal.Store {
		return journal.NewMemoryStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) journal.Store {
		store, err := journal.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestMemoryStore_ListAfterClose(t *testing.T) {
	store := journal.NewMemoryStore()
	_, err := store.Append(journal.NewEntry("s", journal.OpShutdown, 4, nil))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	entries, err := store.List("s")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].RecordID)
}

func TestSQLiteStore_ListAfterClose(t *testing.T) {
	store, err := journal.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.List("s")
	assert.ErrorIs(t, err, journal.ErrStoreClosed)
}

func TestSQLiteStore_CorruptTimestamp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.Append(journal.NewEntry("s", journal.OpExport, 1, nil))
	require.NoError(t, err)

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE journal SET timestamp = 'yesterday' WHERE session = 's'`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = store.List("s")
	assert.ErrorContains(t, err, "parse timestamp")
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	store1, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	_, err = store1.Append(journal.NewEntry("s", journal.OpExport, 3, nil))
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	store2, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	entries, err := store2.List("s")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].RecordID)

	seq, err := store2.Append(journal.NewEntry("s", journal.OpUnexport, 3, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := journal.NewSQLiteStore("/nonexistent/path/journal.db")
	assert.Error(t, err)
}

func TestNewEntry(t *testing.T) {
	a := journal.NewEntry("s", journal.OpExport, 1, nil)
	b := journal.NewEntry("s", journal.OpExport, 1, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.OK)
	assert.Zero(t, a.Sequence)
}
