package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDataDirXDGOverride(t *testing.T) {
	original := os.Getenv("XDG_DATA_HOME")
	t.Cleanup(func() {
		if original != "" {
			os.Setenv("XDG_DATA_HOME", original)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})

	os.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/logingestor" {
		t.Errorf("DefaultDataDir() = %s, want /custom/data/logingestor", got)
	}
}

func TestDefaultDataDirNeverEmpty(t *testing.T) {
	result := DefaultDataDir()
	if result == "" {
		t.Fatal("DefaultDataDir returned empty string")
	}
	if !filepath.IsAbs(result) && !filepath.HasPrefix(result, "./") {
		t.Errorf("DefaultDataDir should be absolute or ./-relative, got %s", result)
	}
}

func TestStoreDir(t *testing.T) {
	if got := StoreDir("/var/lib/logingestor"); got != filepath.Join("/var/lib/logingestor", "store") {
		t.Errorf("StoreDir() = %s", got)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Error("isDir(.) = false")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Error("isDir on missing path = true")
	}
}
