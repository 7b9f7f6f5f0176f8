package dynexport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dynexport/pkg/dynexport/attrfs"
	"github.com/randalmurphal/dynexport/pkg/dynexport/journal"
)

func TestShutdown_DestroysAll(t *testing.T) {
	r, err := Initialize()
	require.NoError(t, err)
	ctx := context.Background()

	var recs []*Record
	for id := int64(1); id <= 5; id++ {
		rec, err := r.Create(ctx, id)
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	r.Shutdown(ctx)

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Class().Len())
	assert.True(t, r.Class().Closed())
	for _, rec := range recs {
		assert.True(t, rec.Released())
	}
}

func TestShutdown_ToleratesFailure(t *testing.T) {
	faulty, f := newFaulty()
	logger, buf := newTestLogger()
	r, err := Initialize(faulty, WithLogger(logger))
	require.NoError(t, err)
	ctx := context.Background()

	const k = 4
	var recs []*Record
	for id := int64(0); id < k; id++ {
		rec, err := r.Create(ctx, id)
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	f.mu.Lock()
	f.failUnpublish["dyn2"] = true
	f.mu.Unlock()

	assert.NotPanics(t, func() { r.Shutdown(ctx) })

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Class().Len(), "class teardown removes the node the failed unpublish left")
	for _, rec := range recs {
		assert.True(t, rec.Released(), "record %d", rec.ID())
	}
	out := buf.String()
	assert.Contains(t, out, "shutdown destroy failed")
	assert.Contains(t, out, `"records_swept":3`)
	assert.Contains(t, out, `"records_failed":1`)
	assert.Contains(t, out, `"stale_nodes":1`)
	assert.Contains(t, out, `"stale_node_names":["dyn2"]`)
}

func TestShutdown_Empty(t *testing.T) {
	r, err := Initialize()
	require.NoError(t, err)
	assert.NotPanics(t, func() { r.Shutdown(context.Background()) })
	assert.Equal(t, 0, r.Len())
}

func TestShutdown_Idempotent(t *testing.T) {
	store := journal.NewMemoryStore()
	r, err := Initialize(WithJournal(store))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.Create(ctx, 1)
	require.NoError(t, err)
	r.Shutdown(ctx)
	assert.NotPanics(t, func() { r.Shutdown(ctx) })

	entries, err := store.List(r.SessionID())
	require.NoError(t, err)
	require.Len(t, entries, 2, "second Shutdown writes nothing")
	assert.Equal(t, journal.OpShutdown, entries[1].Op)
}

func TestShutdown_RejectsLaterOperations(t *testing.T) {
	r, err := Initialize()
	require.NoError(t, err)
	ctx := context.Background()
	r.Shutdown(ctx)

	_, err = r.Create(ctx, 1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Destroy(ctx, 1), ErrClosed)
	assert.ErrorIs(t, r.Class().Write("export", "1"), attrfs.ErrClosed)
	assert.Equal(t, 0, r.Len())
}
