package dynexport

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/dynexport/pkg/dynexport/config"
	"github.com/randalmurphal/dynexport/pkg/dynexport/journal"
	"github.com/randalmurphal/dynexport/pkg/dynexport/observability"
)

// OptionsFromSettings translates validated settings into options. It opens
// the configured journal store, which the registry then owns and closes on
// Shutdown.
func OptionsFromSettings(s config.Settings, logger *slog.Logger) ([]Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{
		WithClassName(s.ClassName),
		WithNodePrefix(s.NodePrefix),
		WithMaxRecords(s.MaxRecords),
		WithLogger(logger),
	}
	if s.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		opts = append(opts, WithSpanManager(observability.NewSpanManager()))
	}

	switch s.JournalDriver {
	case config.JournalMemory:
		opts = append(opts, withOwnedJournal(journal.NewMemoryStore()))
	case config.JournalSQLite:
		store, err := journal.NewSQLiteStore(s.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, withOwnedJournal(store))
	}
	return opts, nil
}
