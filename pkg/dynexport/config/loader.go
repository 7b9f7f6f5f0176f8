package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a settings file and decodes it into validated Settings.
// Unknown keys are rejected so a misspelled key does not silently fall back
// to its default.
func Load(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	if err := checkKeys(cfg); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return SettingsFrom(cfg)
}

// FromFile loads configuration from a file. The format follows the
// extension: .yaml, .yml or .json. An empty file yields an empty Config.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %q", ext)
	}
}

// FromYAML parses a YAML mapping into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml settings: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON object into a Config.
func FromJSON(data []byte) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(nil), nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json settings: %w", err)
	}
	return New(m), nil
}

// knownKeys lists the settings keys, with the nested keys of sections.
var knownKeys = map[string][]string{
	"class_name":  nil,
	"node_prefix": nil,
	"max_records": nil,
	"log_level":   nil,
	"metrics":     nil,
	"tracing":     nil,
	"journal":     {"driver", "path"},
}

// checkKeys reports every key of cfg that SettingsFrom would ignore.
func checkKeys(cfg Config) error {
	var unknown []string
	for key := range cfg.Raw() {
		nested, ok := knownKeys[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if nested == nil {
			continue
		}
		for sub := range cfg.Sub(key).Raw() {
			if !contains(nested, sub) {
				unknown = append(unknown, key+"."+sub)
			}
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown settings: %s", strings.Join(unknown, ", "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
