/*
Package config loads dynexport settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or has the wrong type. Settings is the typed
view the registry and the command line driver consume.

# Basic Usage

	settings, err := config.Load("dynexport.yaml")
	if err != nil {
	    log.Fatal(err)
	}

A complete file:

	class_name: dyn_export
	node_prefix: dyn
	max_records: 1024
	log_level: debug
	metrics: true
	tracing: false
	journal:
	  driver: sqlite
	  path: /var/lib/dynexport/journal.db

Every key is optional; Defaults lists the values used for missing keys.
Load rejects keys it does not know. FromFile and SettingsFrom are the lenient
building blocks for callers that embed these settings in a larger file.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
