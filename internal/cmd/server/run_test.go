package serverrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/nitishkumar0777/log-ingestor-system/internal/config"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
)

func TestGetenvDefault(t *testing.T) {
	_ = os.Setenv("SERVERRUN_TEST_VAR", "env_value")
	t.Cleanup(func() { _ = os.Unsetenv("SERVERRUN_TEST_VAR") })
	if got := getenvDefault("SERVERRUN_TEST_VAR", "default"); got != "env_value" {
		t.Fatalf("set var: %s", got)
	}
	if got := getenvDefault("SERVERRUN_TEST_VAR_UNSET", "default"); got != "default" {
		t.Fatalf("unset var: %s", got)
	}
}

func TestDataDirFallback(t *testing.T) {
	opts := Options{DataDir: ""}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatal("data dir empty after fallback")
	}
}

func TestDataDirStoreSubdirectory(t *testing.T) {
	if got := cfgpkg.StoreDir("/tmp/logingestor"); got != filepath.Join("/tmp/logingestor", "store") {
		t.Fatalf("store dir: %s", got)
	}
}

// TestRunIntegration starts the full server and cancels it shortly after.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	opts := Options{
		DataDir:  t.TempDir(),
		HTTPAddr: ":0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := Run(ctx, opts); err != nil && err != context.DeadlineExceeded && err != context.Canceled {
		t.Fatalf("run: %v", err)
	}
}
