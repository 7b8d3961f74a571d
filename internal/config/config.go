package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr string         `json:"httpAddr" yaml:"httpAddr"`
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Query    QueryConfig    `json:"query" yaml:"query"`
	Realtime RealtimeConfig `json:"realtime" yaml:"realtime"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// IngestConfig tunes the write buffer. Intervals are in milliseconds.
type IngestConfig struct {
	BatchSize          int `json:"batchSize" yaml:"batchSize"`
	FlushIntervalMS    int `json:"flushIntervalMs" yaml:"flushIntervalMs"`
	SnapshotIntervalMS int `json:"snapshotIntervalMs" yaml:"snapshotIntervalMs"`
	HighWater          int `json:"highWater" yaml:"highWater"`
	WriteTimeoutMS     int `json:"writeTimeoutMs" yaml:"writeTimeoutMs"`
}

// FlushInterval returns the configured flush cadence.
func (c IngestConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

// SnapshotInterval returns the configured snapshot cadence.
func (c IngestConfig) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalMS) * time.Millisecond
}

// WriteTimeout returns the bound on each automatic bulk write.
func (c IngestConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// QueryConfig tunes search execution. Zero values keep built-in defaults.
type QueryConfig struct {
	SearchTimeoutMS int `json:"searchTimeoutMs" yaml:"searchTimeoutMs"`
	RegexTimeoutMS  int `json:"regexTimeoutMs" yaml:"regexTimeoutMs"`
}

// SearchTimeout returns the configured plain-search timeout, or 0 if unset.
func (c QueryConfig) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMS) * time.Millisecond
}

// RegexTimeout returns the configured regex-search timeout, or 0 if unset.
func (c QueryConfig) RegexTimeout() time.Duration {
	return time.Duration(c.RegexTimeoutMS) * time.Millisecond
}

// RealtimeConfig tunes the delivery loop.
type RealtimeConfig struct {
	DispatchIntervalMS int `json:"dispatchIntervalMs" yaml:"dispatchIntervalMs"`
}

// DispatchInterval returns the configured delivery cadence.
func (c RealtimeConfig) DispatchInterval() time.Duration {
	return time.Duration(c.DispatchIntervalMS) * time.Millisecond
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr: ":3000",
		Ingest: IngestConfig{
			BatchSize:          1000,
			FlushIntervalMS:    5000,
			SnapshotIntervalMS: 30000,
			HighWater:          10000,
			WriteTimeoutMS:     30000,
		},
		Query: QueryConfig{
			SearchTimeoutMS: 10000,
			RegexTimeoutMS:  15000,
		},
		Realtime: RealtimeConfig{
			DispatchIntervalMS: 3000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults. File values overlay the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
