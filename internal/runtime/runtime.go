package runtime

import (
	"context"
	"errors"

	cfgpkg "github.com/nitishkumar0777/log-ingestor-system/internal/config"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store/pebbledocs"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	Logger  logpkg.Logger
}

// Runtime wires storage, config, and the document store for a single-node
// instance.
type Runtime struct {
	db     *pebblestore.DB
	docs   *pebbledocs.Store
	config cfgpkg.Config
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync})
	if err != nil {
		return nil, err
	}
	docs, err := pebbledocs.Open(db, opts.Logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runtime{db: db, docs: docs, config: opts.Config}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Docs returns the document store.
func (r *Runtime) Docs() *pebbledocs.Store { return r.docs }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
