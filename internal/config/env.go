package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LOGINGESTOR_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("LOGINGESTOR_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	setInt(&cfg.Ingest.BatchSize, "LOGINGESTOR_INGEST_BATCH_SIZE")
	setInt(&cfg.Ingest.FlushIntervalMS, "LOGINGESTOR_INGEST_FLUSH_INTERVAL_MS")
	setInt(&cfg.Ingest.SnapshotIntervalMS, "LOGINGESTOR_INGEST_SNAPSHOT_INTERVAL_MS")
	setInt(&cfg.Ingest.HighWater, "LOGINGESTOR_INGEST_HIGH_WATER")
	setInt(&cfg.Ingest.WriteTimeoutMS, "LOGINGESTOR_INGEST_WRITE_TIMEOUT_MS")
	setInt(&cfg.Query.SearchTimeoutMS, "LOGINGESTOR_QUERY_SEARCH_TIMEOUT_MS")
	setInt(&cfg.Query.RegexTimeoutMS, "LOGINGESTOR_QUERY_REGEX_TIMEOUT_MS")
	setInt(&cfg.Realtime.DispatchIntervalMS, "LOGINGESTOR_REALTIME_DISPATCH_INTERVAL_MS")
	if v := os.Getenv("LOGINGESTOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOGINGESTOR_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
