// Package observability provides structured logging, metrics and tracing for
// the dynexport registry.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every helper in this file accepts a nil logger and does nothing.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with class and session fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "dyn_export", sessionID)
//	enriched.Info("ready") // includes class, session
func EnrichLogger(logger *slog.Logger, class, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("class", class),
		slog.String("session", sessionID),
	)
}

// LogInitialize logs registration of the control endpoints. The class name
// comes from the logger's EnrichLogger attributes.
func LogInitialize(logger *slog.Logger, nodePrefix string, maxRecords int) {
	if logger == nil {
		return
	}
	logger.Info("registry initialized",
		slog.String("node_prefix", nodePrefix),
		slog.Int("max_records", maxRecords),
	)
}

// LogExport logs creation of a record and its node.
func LogExport(logger *slog.Logger, id int64, node string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("record exported",
		slog.Int64("id", id),
		slog.String("node", node),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogExportError logs a rejected Create.
func LogExportError(logger *slog.Logger, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Error("export failed",
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}

// LogUnexport logs destruction of a record.
func LogUnexport(logger *slog.Logger, id int64, node string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("record unexported",
		slog.Int64("id", id),
		slog.String("node", node),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogUnexportError logs a rejected Destroy.
func LogUnexportError(logger *slog.Logger, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Error("unexport failed",
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}

// LogInvalidInput logs control or attribute text that did not parse.
func LogInvalidInput(logger *slog.Logger, endpoint, input string, err error) {
	if logger == nil {
		return
	}
	logger.Error("could not parse input as an integer",
		slog.String("endpoint", endpoint),
		slog.String("input", input),
		slog.String("error", err.Error()),
	)
}

// LogShutdownFailure logs a record that could not be destroyed cleanly during
// shutdown (non-fatal).
func LogShutdownFailure(logger *slog.Logger, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("shutdown destroy failed",
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}

// LogShutdown logs completion of the shutdown sweep. stale names the nodes
// that class teardown removed because their unpublish had failed.
func LogShutdown(logger *slog.Logger, swept, failed int, stale []string, durationMs float64) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.Int("records_swept", swept),
		slog.Int("records_failed", failed),
		slog.Int("stale_nodes", len(stale)),
		slog.Float64("duration_ms", durationMs),
	}
	if len(stale) > 0 {
		attrs = append(attrs, slog.Any("stale_node_names", stale))
	}
	logger.Info("registry shut down", attrs...)
}

// LogJournalError logs a journal append failure (non-fatal).
func LogJournalError(logger *slog.Logger, op string, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal append failed",
		slog.String("operation", op),
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
