package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/buffer"
	cfgpkg "github.com/nitishkumar0777/log-ingestor-system/internal/config"
	"github.com/nitishkumar0777/log-ingestor-system/internal/realtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
	httpserver "github.com/nitishkumar0777/log-ingestor-system/internal/server/http"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// drainTimeout bounds the final buffer flush and snapshot at shutdown.
const drainTimeout = 10 * time.Second

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

type Options struct {
	DataDir  string
	HTTPAddr string
	Fsync    pebblestore.FsyncMode
	Config   cfgpkg.Config
}

// Run starts the ingestor and blocks until ctx is cancelled. Shutdown order
// matters: stop the dispatcher, drain the write buffer into the store, then
// close the runtime.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context. We layer
	// a local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = opts.Config.HTTPAddr
	}

	// Build process-wide logger using env/ApplyConfig; defaults from config.
	logCfg := &logpkg.Config{
		Level:  getenvDefault("LOGINGESTOR_LOG_LEVEL", opts.Config.Log.Level),
		Format: getenvDefault("LOGINGESTOR_LOG_FORMAT", opts.Config.Log.Format),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{
		DataDir: cfgpkg.StoreDir(opts.DataDir),
		Fsync:   opts.Fsync,
		Config:  opts.Config,
		Logger:  procLogger.With(logpkg.Component("docs")),
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting log ingestor",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	buf, err := buffer.New(rt.Docs(), rt.DB(), buffer.Options{
		BatchSize:        opts.Config.Ingest.BatchSize,
		FlushInterval:    opts.Config.Ingest.FlushInterval(),
		SnapshotInterval: opts.Config.Ingest.SnapshotInterval(),
		HighWater:        opts.Config.Ingest.HighWater,
		WriteTimeout:     opts.Config.Ingest.WriteTimeout(),
	}, procLogger.With(logpkg.Component("buffer")))
	if err != nil {
		return err
	}
	buf.Start()

	poller := realtime.NewPoller(rt.Docs(), procLogger.With(logpkg.Component("realtime")))
	disp := realtime.NewDispatcher(poller, opts.Config.Realtime.DispatchInterval(), procLogger.With(logpkg.Component("dispatch")))
	disp.Start(sctx)

	hsrv := httpserver.New(rt, buf, disp, procLogger.With(logpkg.Component("http")))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server failed", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	disp.Stop()
	hsrv.Close()
	wg.Wait()

	dctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := buf.ShutdownDrain(dctx); err != nil {
		procLogger.Warn("buffer drain incomplete", logpkg.Err(err))
	}
	return nil
}
