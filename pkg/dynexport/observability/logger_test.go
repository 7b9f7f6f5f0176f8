package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds class and session", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "dyn_export", "sess-1")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "dyn_export", record["class"])
		assert.Equal(t, "sess-1", record["session"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "c", "s"))
	})
}

func TestLogHelpers(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
		msg   string
		attrs map[string]any
	}{
		{
			name:  "initialize",
			log:   func(l *slog.Logger) { LogInitialize(l, "dyn", 8) },
			level: "INFO", msg: "registry initialized",
			attrs: map[string]any{"node_prefix": "dyn", "max_records": float64(8)},
		},
		{
			name:  "export",
			log:   func(l *slog.Logger) { LogExport(l, 7, "dyn7", 1.5) },
			level: "DEBUG", msg: "record exported",
			attrs: map[string]any{"id": float64(7), "node": "dyn7", "duration_ms": 1.5},
		},
		{
			name:  "export error",
			log:   func(l *slog.Logger) { LogExportError(l, 7, boom) },
			level: "ERROR", msg: "export failed",
			attrs: map[string]any{"id": float64(7), "error": "boom"},
		},
		{
			name:  "unexport",
			log:   func(l *slog.Logger) { LogUnexport(l, -3, "dyn-3", 0.25) },
			level: "DEBUG", msg: "record unexported",
			attrs: map[string]any{"id": float64(-3), "node": "dyn-3"},
		},
		{
			name:  "unexport error",
			log:   func(l *slog.Logger) { LogUnexportError(l, 9, boom) },
			level: "ERROR", msg: "unexport failed",
			attrs: map[string]any{"id": float64(9), "error": "boom"},
		},
		{
			name:  "invalid input",
			log:   func(l *slog.Logger) { LogInvalidInput(l, "export", "abc", boom) },
			level: "ERROR", msg: "could not parse input as an integer",
			attrs: map[string]any{"endpoint": "export", "input": "abc"},
		},
		{
			name:  "shutdown failure",
			log:   func(l *slog.Logger) { LogShutdownFailure(l, 4, boom) },
			level: "WARN", msg: "shutdown destroy failed",
			attrs: map[string]any{"id": float64(4), "error": "boom"},
		},
		{
			name:  "shutdown",
			log:   func(l *slog.Logger) { LogShutdown(l, 3, 1, []string{"dyn2"}, 2.0) },
			level: "INFO", msg: "registry shut down",
			attrs: map[string]any{"records_swept": float64(3), "records_failed": float64(1), "stale_nodes": float64(1), "stale_node_names": []any{"dyn2"}},
		},
		{
			name:  "journal error",
			log:   func(l *slog.Logger) { LogJournalError(l, "export", 2, boom) },
			level: "WARN", msg: "journal append failed",
			attrs: map[string]any{"operation": "export", "id": float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			tt.log(slog.New(h))

			record := h.getLastRecord()
			require.NotNil(t, record)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.msg, record["msg"])
			for k, v := range tt.attrs {
				assert.Equal(t, v, record[k], "attribute %s", k)
			}
		})

		t.Run(tt.name+" nil logger does not panic", func(t *testing.T) {
			assert.NotPanics(t, func() { tt.log(nil) })
		})
	}
}

func TestLogInitialize_ClassOnceWhenEnriched(t *testing.T) {
	var buf bytes.Buffer
	logger := EnrichLogger(slog.New(slog.NewJSONHandler(&buf, nil)), "dyn_export", "sess-1")
	LogInitialize(logger, "dyn", 0)

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"class":`)), buf.String())
}

func TestTimedOperation(t *testing.T) {
	t.Run("measures duration", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(10 * time.Millisecond)
		assert.GreaterOrEqual(t, done(), 10.0)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(2 * time.Millisecond)
		d1 := done()
		time.Sleep(2 * time.Millisecond)
		assert.Greater(t, done(), d1)
	})
}
