package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/nitishkumar0777/log-ingestor-system/internal/config"
	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
)

func TestOpenCloseHealth(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestDocsWriteAndSearch(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()

	res, err := rt.Docs().BulkWrite(context.Background(), []model.LogEvent{
		{Level: model.LevelInfo, Message: "hello", Timestamp: "2023-09-15T08:00:00Z"},
	})
	if err != nil {
		t.Fatalf("bulk write: %v", err)
	}
	if res.Written != 1 {
		t.Fatalf("written: %d", res.Written)
	}
}
