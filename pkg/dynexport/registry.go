package dynexport

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/dynexport/pkg/dynexport/attrfs"
	"github.com/randalmurphal/dynexport/pkg/dynexport/journal"
	"github.com/randalmurphal/dynexport/pkg/dynexport/observability"
)

// Publisher makes record nodes visible to callers of the attribute layer.
// *attrfs.Class[*Record] implements it.
type Publisher interface {
	// Publish makes a node named name carrying rec visible. It must fail if
	// the name is already published.
	Publish(name string, rec *Record) error

	// Unpublish removes the node named name.
	Unpublish(name string) error
}

// entry is one live record and the name of its node.
type entry struct {
	rec  *Record
	node string
}

// Registry owns the live records of one attribute class.
type Registry struct {
	opts    options
	session string
	logger  *slog.Logger
	class   *attrfs.Class[*Record]
	pub     Publisher

	// mu serializes Create, Destroy and the Shutdown sweep.
	mu      sync.Mutex
	records *list.List // of *entry, insertion order
	index   map[int64]*list.Element
	closed  bool
}

// Initialize creates a registry and registers its attribute class with the
// "export" and "unexport" control attributes.
func Initialize(opts ...Option) (*Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.className == "" || strings.Contains(o.className, "/") {
		return nil, fmt.Errorf("invalid class name %q", o.className)
	}
	if strings.Contains(o.nodePrefix, "/") {
		return nil, fmt.Errorf("invalid node prefix %q", o.nodePrefix)
	}

	r := &Registry{
		opts:    o,
		session: uuid.New().String(),
		records: list.New(),
		index:   make(map[int64]*list.Element),
	}
	r.logger = observability.EnrichLogger(o.logger, o.className, r.session)
	r.class = attrfs.NewClass(o.className, r.controlAttrs(), r.recordAttrs())
	r.pub = r.class
	if o.wrap != nil {
		r.pub = o.wrap(r.class)
	}

	observability.LogInitialize(r.logger, o.nodePrefix, o.maxRecords)
	return r, nil
}

// Class returns the attribute class through which the registry is driven.
func (r *Registry) Class() *attrfs.Class[*Record] { return r.class }

// SessionID identifies this registry's lifetime in logs and the journal.
func (r *Registry) SessionID() string { return r.session }

// NodeName returns the node name used for id.
func (r *Registry) NodeName(id int64) string {
	return r.opts.nodePrefix + strconv.FormatInt(id, 10)
}

// Create exports a new record with the given id.
//
// Allocation, publish and insertion happen under the registry lock. The node
// is published before the record is inserted, so a failed publish leaves no
// trace. A duplicate id is detected by the publish name collision.
func (r *Registry) Create(ctx context.Context, id int64) (*Record, error) {
	ctx, span := r.opts.spans.StartOpSpan(ctx, journal.OpExport, id)
	start := time.Now()

	rec, node, err := r.create(id)
	if err != nil {
		err = &OpError{Op: journal.OpExport, ID: id, Err: err}
	}

	elapsed := time.Since(start)
	r.opts.metrics.RecordCreate(ctx, elapsed, err)
	r.opts.spans.EndSpanWithError(span, err)
	r.appendJournal(journal.OpExport, id, err)
	if err != nil {
		observability.LogExportError(r.logger, id, err)
		return nil, err
	}
	observability.LogExport(r.logger, id, node, durationMs(elapsed))
	return rec, nil
}

func (r *Registry) create(id int64) (*Record, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, "", ErrClosed
	}
	if r.opts.maxRecords > 0 && r.records.Len() >= r.opts.maxRecords {
		return nil, "", ErrAllocationFailed
	}

	rec := newRecord(id)
	node := r.NodeName(id)
	if err := r.pub.Publish(node, rec); err != nil {
		rec.release()
		return nil, "", fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	r.index[id] = r.records.PushBack(&entry{rec: rec, node: node})
	return rec, node, nil
}

// Destroy unexports the record with the given id: its node is unpublished,
// then the record is released and removed. Destroying an id that is not live
// fails with ErrNotFound.
func (r *Registry) Destroy(ctx context.Context, id int64) error {
	ctx, span := r.opts.spans.StartOpSpan(ctx, journal.OpUnexport, id)
	start := time.Now()

	node, err := r.destroy(id)
	if err != nil {
		err = &OpError{Op: journal.OpUnexport, ID: id, Err: err}
	}

	elapsed := time.Since(start)
	r.opts.metrics.RecordDestroy(ctx, elapsed, err)
	r.opts.spans.EndSpanWithError(span, err)
	r.appendJournal(journal.OpUnexport, id, err)
	if err != nil {
		observability.LogUnexportError(r.logger, id, err)
		return err
	}
	observability.LogUnexport(r.logger, id, node, durationMs(elapsed))
	return nil
}

func (r *Registry) destroy(id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrClosed
	}
	el, ok := r.index[id]
	if !ok {
		return "", ErrNotFound
	}
	e := el.Value.(*entry)
	if err := r.pub.Unpublish(e.node); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnpublishFailed, err)
	}
	r.unlinkLocked(el)
	return e.node, nil
}

// unlinkLocked releases the record held by el and drops it from the
// collection. The caller holds r.mu and has unpublished the node.
func (r *Registry) unlinkLocked(el *list.Element) {
	e := el.Value.(*entry)
	e.rec.release()
	r.records.Remove(el)
	delete(r.index, e.rec.id)
}

// Lookup returns the live record with the given id.
func (r *Registry) Lookup(id int64) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*entry).rec, true
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records.Len()
}

// IDs returns the ids of all live records in creation order.
func (r *Registry) IDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, r.records.Len())
	for el := r.records.Front(); el != nil; el = el.Next() {
		ids = append(ids, el.Value.(*entry).rec.id)
	}
	return ids
}

// sweepFailure is a record whose node could not be unpublished during Shutdown.
type sweepFailure struct {
	id  int64
	err error
}

// Shutdown destroys every live record, then unregisters the class. A record
// whose node cannot be unpublished is logged and released anyway; the class
// teardown removes whatever node it left behind. Later Create and Destroy
// calls fail with ErrClosed. Shutdown is safe on an empty registry and a
// second call is a no-op.
func (r *Registry) Shutdown(ctx context.Context) {
	ctx, span := r.opts.spans.StartOpSpan(ctx, journal.OpShutdown, 0)
	done := observability.TimedOperation()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.opts.spans.EndSpanWithError(span, nil)
		return
	}
	r.closed = true

	var (
		swept    []int64
		failures []sweepFailure
	)
	for el := r.records.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry)
		if err := r.pub.Unpublish(e.node); err != nil {
			failures = append(failures, sweepFailure{id: e.rec.id, err: err})
		} else {
			swept = append(swept, e.rec.id)
		}
		r.unlinkLocked(el)
		el = next
	}
	stale := r.class.Unregister()
	r.mu.Unlock()

	for _, id := range swept {
		r.opts.spans.AddSpanEvent(ctx, "record.swept", attribute.Int64("record.id", id))
		r.appendJournal(journal.OpShutdown, id, nil)
	}
	var sweepErr error
	for _, f := range failures {
		err := &OpError{Op: journal.OpShutdown, ID: f.id, Err: fmt.Errorf("%w: %w", ErrUnpublishFailed, f.err)}
		sweepErr = errors.Join(sweepErr, err)
		observability.LogShutdownFailure(r.logger, f.id, err)
		r.appendJournal(journal.OpShutdown, f.id, err)
	}

	r.opts.metrics.RecordShutdown(ctx, len(swept), len(failures))
	r.opts.spans.EndSpanWithError(span, sweepErr)
	observability.LogShutdown(r.logger, len(swept), len(failures), stale, done())

	if r.opts.ownJournal {
		if err := r.opts.journal.Close(); err != nil {
			observability.LogJournalError(r.logger, "close", 0, err)
		}
	}
}

// Journal returns the audit journal, or nil when none is configured.
func (r *Registry) Journal() journal.Store { return r.opts.journal }

func (r *Registry) appendJournal(op string, id int64, opErr error) {
	if r.opts.journal == nil {
		return
	}
	if _, err := r.opts.journal.Append(journal.NewEntry(r.session, op, id, opErr)); err != nil {
		observability.LogJournalError(r.logger, op, id, err)
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
