package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Journal drivers.
const (
	JournalNone   = "none"
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
)

// Settings is the typed registry configuration.
type Settings struct {
	// ClassName names the attribute class holding the control endpoints.
	ClassName string
	// NodePrefix is prepended to the decimal id to name a record's node.
	NodePrefix string
	// MaxRecords caps the number of live records; 0 means unlimited.
	MaxRecords int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// Metrics enables the OpenTelemetry metrics recorder.
	Metrics bool
	// Tracing enables OpenTelemetry spans.
	Tracing bool
	// JournalDriver is one of JournalNone, JournalMemory, JournalSQLite.
	JournalDriver string
	// JournalPath is the SQLite database path.
	JournalPath string
}

// Defaults returns the settings used for missing keys.
func Defaults() Settings {
	return Settings{
		ClassName:     "dyn_export",
		NodePrefix:    "dyn",
		LogLevel:      "info",
		JournalDriver: JournalNone,
		JournalPath:   "dynexport-journal.db",
	}
}

// SettingsFrom extracts Settings from cfg, filling gaps from Defaults, and
// validates the result.
func SettingsFrom(cfg Config) (Settings, error) {
	d := Defaults()
	journal := cfg.Sub("journal")
	s := Settings{
		ClassName:     cfg.String("class_name", d.ClassName),
		NodePrefix:    cfg.String("node_prefix", d.NodePrefix),
		MaxRecords:    cfg.Int("max_records", d.MaxRecords),
		LogLevel:      strings.ToLower(cfg.String("log_level", d.LogLevel)),
		Metrics:       cfg.Bool("metrics", d.Metrics),
		Tracing:       cfg.Bool("tracing", d.Tracing),
		JournalDriver: strings.ToLower(journal.String("driver", d.JournalDriver)),
		JournalPath:   journal.String("path", d.JournalPath),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	switch {
	case s.ClassName == "" || strings.Contains(s.ClassName, "/"):
		return fmt.Errorf("invalid class_name %q", s.ClassName)
	case strings.Contains(s.NodePrefix, "/"):
		return fmt.Errorf("invalid node_prefix %q", s.NodePrefix)
	case s.MaxRecords < 0:
		return errors.New("max_records must not be negative")
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	switch s.JournalDriver {
	case JournalNone, JournalMemory:
	case JournalSQLite:
		if s.JournalPath == "" {
			return errors.New("journal.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown journal driver %q", s.JournalDriver)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", name)
	}
	return l, nil
}
