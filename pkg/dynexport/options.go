package dynexport

import (
	"log/slog"

	"github.com/randalmurphal/dynexport/pkg/dynexport/journal"
	"github.com/randalmurphal/dynexport/pkg/dynexport/observability"
)

// options holds registry configuration.
type options struct {
	className  string
	nodePrefix string
	maxRecords int
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	journal    journal.Store
	ownJournal bool
	wrap       func(Publisher) Publisher
}

// defaultOptions returns the default registry configuration.
func defaultOptions() options {
	return options{
		className:  "dyn_export",
		nodePrefix: "dyn",
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
}

// Option configures a Registry.
type Option func(*options)

// WithClassName sets the attribute class name.
// Default: "dyn_export"
func WithClassName(name string) Option {
	return func(o *options) {
		o.className = name
	}
}

// WithNodePrefix sets the prefix of record node names.
// Default: "dyn", giving nodes such as "dyn7".
func WithNodePrefix(prefix string) Option {
	return func(o *options) {
		o.nodePrefix = prefix
	}
}

// WithMaxRecords caps the number of live records. Create fails with
// ErrAllocationFailed at the cap. Default: 0 (unlimited)
func WithMaxRecords(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRecords = n
		}
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpanManager sets the span manager. Default: observability.NoopSpanManager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithJournal sets the audit journal. The caller keeps ownership: Shutdown
// writes its final entries but does not close the store.
// Default: none.
func WithJournal(store journal.Store) Option {
	return func(o *options) {
		o.journal = store
		o.ownJournal = false
	}
}

// withOwnedJournal sets a journal the registry opened itself and closes on
// Shutdown.
func withOwnedJournal(store journal.Store) Option {
	return func(o *options) {
		o.journal = store
		o.ownJournal = true
	}
}

// WithPublisherWrapper interposes wrap between the registry and its attribute
// class for publish and unpublish calls. It is meant for instrumentation and
// fault injection; reads and writes still go to the class directly.
func WithPublisherWrapper(wrap func(Publisher) Publisher) Option {
	return func(o *options) {
		o.wrap = wrap
	}
}
