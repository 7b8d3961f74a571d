// Package buffer implements the durable write buffer between producers and
// the document store: in-memory batching, single-flight flushes with
// re-queue on failure, periodic snapshots for crash recovery, and a graceful
// drain on shutdown.
package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// Options tune the buffer. Zero values fall back to defaults.
type Options struct {
	// BatchSize triggers an asynchronous flush when the queue reaches it.
	BatchSize int
	// FlushInterval bounds worst-case latency from enqueue to store-visible.
	FlushInterval time.Duration
	// SnapshotInterval bounds data loss on unclean termination.
	SnapshotInterval time.Duration
	// HighWater is the queue depth above which Status reports a capacity
	// warning. Defaults to ten batches.
	HighWater int
	// WriteTimeout bounds each automatic bulk write so a hung writer cannot
	// pin the in-flight flag and starve later flushes.
	WriteTimeout time.Duration
}

func (o *Options) defaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 1000
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 5 * time.Second
	}
	if o.SnapshotInterval <= 0 {
		o.SnapshotInterval = 30 * time.Second
	}
	if o.HighWater <= 0 {
		o.HighWater = o.BatchSize * 10
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 30 * time.Second
	}
}

// Status is the queue status surfaced to callers as the backpressure signal.
type Status struct {
	QueueSize       int   `json:"queueSize"`
	IsProcessing    bool  `json:"isProcessing"`
	BatchSize       int   `json:"batchSize"`
	FlushInterval   int64 `json:"flushInterval"`
	CapacityWarning bool  `json:"capacityWarning"`
}

// FlushResult reports one flush attempt: how many events the batch carried
// and how many failed store-side. Item errors are not a flush failure.
type FlushResult struct {
	Count  int `json:"count"`
	Errors int `json:"errors"`
}

// Buffer is the process-wide write buffer. All mutation goes through its
// methods; nothing reaches into the queue directly.
type Buffer struct {
	writer store.BulkWriter
	logger logpkg.Logger
	opts   Options
	snap   *snapshotter

	mu       sync.Mutex
	queue    []model.LogEvent
	pending  []model.LogEvent // batch currently being written
	inFlight bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New builds a Buffer, restoring any snapshot persisted by a previous run.
func New(writer store.BulkWriter, db *pebblestore.DB, opts Options, logger logpkg.Logger) (*Buffer, error) {
	opts.defaults()
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("buffer"))
	}
	snap, err := newSnapshotter(db)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		writer: writer,
		logger: logger,
		opts:   opts,
		snap:   snap,
		stopCh: make(chan struct{}),
	}
	restored, err := snap.load()
	if err != nil {
		return nil, err
	}
	if len(restored) > 0 {
		b.queue = restored
		logger.Info("restored unflushed events from snapshot", logpkg.Int("count", len(restored)))
	}
	return b, nil
}

// Start launches the periodic flush and snapshot tasks. They stop as part of
// ShutdownDrain so nothing fires against torn-down state.
func (b *Buffer) Start() {
	b.wg.Add(2)
	go b.flushLoop()
	go b.snapshotLoop()
}

// Enqueue appends a validated event. It never blocks on store I/O; reaching
// the batch threshold triggers an asynchronous flush of the events queued so
// far.
func (b *Buffer) Enqueue(e model.LogEvent) {
	b.mu.Lock()
	b.queue = append(b.queue, e)
	var batch []model.LogEvent
	if len(b.queue) >= b.opts.BatchSize && !b.inFlight {
		batch = b.takeLocked()
	}
	b.mu.Unlock()
	if batch != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), b.opts.WriteTimeout)
			defer cancel()
			if _, err := b.write(ctx, batch); err != nil {
				b.logger.Error("auto flush failed, batch re-queued", logpkg.Int("count", len(batch)), logpkg.Err(err))
			}
		}()
	}
}

// Flush drains the queue into one bulk write. A flush already in progress
// makes this a no-op success; per-item store errors are reported but do not
// fail the flush. If the bulk operation itself fails the whole batch is
// prepended back onto the queue in its original order.
func (b *Buffer) Flush(ctx context.Context) (FlushResult, error) {
	b.mu.Lock()
	if b.inFlight || len(b.queue) == 0 {
		b.mu.Unlock()
		return FlushResult{}, nil
	}
	batch := b.takeLocked()
	b.mu.Unlock()
	return b.write(ctx, batch)
}

// takeLocked swaps out the current queue contents as the working batch.
// Callers must hold mu.
func (b *Buffer) takeLocked() []model.LogEvent {
	batch := b.queue
	b.queue = nil
	b.pending = batch
	b.inFlight = true
	return batch
}

// write performs the bulk write for a taken batch and settles the outcome.
func (b *Buffer) write(ctx context.Context, batch []model.LogEvent) (FlushResult, error) {
	res, err := b.writer.BulkWrite(ctx, batch)

	b.mu.Lock()
	b.inFlight = false
	b.pending = nil
	if err != nil {
		// Preserve original order ahead of newly enqueued items.
		b.queue = append(append([]model.LogEvent{}, batch...), b.queue...)
		b.mu.Unlock()
		return FlushResult{}, err
	}
	b.mu.Unlock()

	fr := FlushResult{Count: len(batch), Errors: len(res.Errors)}
	b.logger.Info("flushed events", logpkg.Int("count", fr.Count), logpkg.Int("errors", fr.Errors))
	return fr, nil
}

// Snapshot persists the queue (including any batch still in flight) to
// durable storage. Duplicates on recovery are tolerated; loss is not.
func (b *Buffer) Snapshot() error {
	b.mu.Lock()
	events := make([]model.LogEvent, 0, len(b.pending)+len(b.queue))
	events = append(events, b.pending...)
	events = append(events, b.queue...)
	b.mu.Unlock()
	return b.snap.save(events)
}

// Status reports the queue state for backpressure monitoring.
func (b *Buffer) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	depth := len(b.queue) + len(b.pending)
	return Status{
		QueueSize:       depth,
		IsProcessing:    b.inFlight,
		BatchSize:       b.opts.BatchSize,
		FlushInterval:   b.opts.FlushInterval.Milliseconds(),
		CapacityWarning: depth >= b.opts.HighWater,
	}
}

// ShutdownDrain stops the periodic tasks, performs a final flush, then a
// final snapshot of anything still unflushed. It respects ctx as the bound
// on total drain time.
func (b *Buffer) ShutdownDrain(ctx context.Context) error {
	b.stopOnce.Do(func() { close(b.stopCh) })
	b.wg.Wait()

	if _, err := b.Flush(ctx); err != nil {
		b.logger.Warn("final flush failed; events remain in snapshot", logpkg.Err(err))
	}
	if err := b.Snapshot(); err != nil {
		return err
	}
	st := b.Status()
	b.logger.Info("buffer drained", logpkg.Int("remaining", st.QueueSize))
	return nil
}

func (b *Buffer) flushLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.opts.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			st := b.Status()
			if st.QueueSize == 0 {
				continue
			}
			b.logger.Debug("auto-flushing queued events", logpkg.Int("queued", st.QueueSize))
			ctx, cancel := context.WithTimeout(context.Background(), b.opts.WriteTimeout)
			if _, err := b.Flush(ctx); err != nil {
				b.logger.Error("auto flush failed, batch re-queued", logpkg.Err(err))
			}
			cancel()
		}
	}
}

func (b *Buffer) snapshotLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.opts.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error("snapshot failed", logpkg.Err(err))
			}
		}
	}
}
