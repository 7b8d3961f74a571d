package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("default http addr: %s", cfg.HTTPAddr)
	}
	if cfg.Ingest.BatchSize != 1000 {
		t.Fatalf("batch size default")
	}
	if cfg.Ingest.FlushInterval() != 5*time.Second {
		t.Fatalf("flush interval default")
	}
	if cfg.Ingest.WriteTimeout() != 30*time.Second {
		t.Fatalf("write timeout default")
	}
	if cfg.Realtime.DispatchInterval() != 3*time.Second {
		t.Fatalf("dispatch interval default")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logingestor.json")
	data := []byte(`{"httpAddr":":8080","ingest":{"batchSize":500,"flushIntervalMs":2000}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080")
	}
	if cfg.Ingest.BatchSize != 500 {
		t.Fatalf("expected 500")
	}
	if cfg.Ingest.FlushInterval() != 2*time.Second {
		t.Fatalf("expected 2s")
	}
	// Untouched sections keep defaults.
	if cfg.Query.SearchTimeoutMS != 10000 {
		t.Fatalf("query defaults lost")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logingestor.yaml")
	data := []byte("httpAddr: \":9090\"\ningest:\n  batchSize: 250\nrealtime:\n  dispatchIntervalMs: 1000\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090")
	}
	if cfg.Ingest.BatchSize != 250 {
		t.Fatalf("expected 250")
	}
	if cfg.Realtime.DispatchInterval() != time.Second {
		t.Fatalf("expected 1s")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/logingestor.json"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("LOGINGESTOR_HTTP_ADDR", ":4000")
	os.Setenv("LOGINGESTOR_INGEST_BATCH_SIZE", "100")
	os.Setenv("LOGINGESTOR_LOG_LEVEL", "debug")
	t.Cleanup(func() {
		os.Unsetenv("LOGINGESTOR_HTTP_ADDR")
		os.Unsetenv("LOGINGESTOR_INGEST_BATCH_SIZE")
		os.Unsetenv("LOGINGESTOR_LOG_LEVEL")
	})
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":4000" {
		t.Fatalf("env override addr")
	}
	if cfg.Ingest.BatchSize != 100 {
		t.Fatalf("env override batch size")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("env override log level")
	}
}
