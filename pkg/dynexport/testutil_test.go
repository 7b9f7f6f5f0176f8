package dynexport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errFault = errors.New("injected fault")

// faultyPublisher fails Unpublish for selected node names.
type faultyPublisher struct {
	Publisher

	mu            sync.Mutex
	failUnpublish map[string]bool
	publishErr    error
}

func (f *faultyPublisher) Publish(name string, rec *Record) error {
	f.mu.Lock()
	err := f.publishErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Publisher.Publish(name, rec)
}

func (f *faultyPublisher) Unpublish(name string) error {
	f.mu.Lock()
	fail := f.failUnpublish[name]
	f.mu.Unlock()
	if fail {
		return errFault
	}
	return f.Publisher.Unpublish(name)
}

// newFaulty returns an option installing a faultyPublisher and the publisher
// itself for configuring faults.
func newFaulty() (Option, *faultyPublisher) {
	f := &faultyPublisher{failUnpublish: make(map[string]bool)}
	return WithPublisherWrapper(func(p Publisher) Publisher {
		f.Publisher = p
		return f
	}), f
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// newTestRegistry initializes a registry that is shut down at test cleanup.
func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r, err := Initialize(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Shutdown(context.Background()) })
	return r
}
