package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory based on the host OS.
// It prefers standard locations when available and falls back to a dotdir
// in the user's home directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	// XDG (Linux) override
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "logingestor")
	}

	if isDir("/var/lib") {
		return "/var/lib/logingestor"
	}

	// macOS: ~/Library/Application Support/LogIngestor
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "LogIngestor")
	}

	// Windows: %USERPROFILE%/AppData/Local/LogIngestor
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "LogIngestor")
	}

	return filepath.Join(homeDir, ".logingestor")
}

// StoreDir returns the document store location under a data directory. The
// store gets its own subdirectory so snapshots, pid files, and future
// siblings can live next to it without mixing into Pebble's files.
func StoreDir(dataDir string) string {
	return filepath.Join(dataDir, "store")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
