package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// DefaultDispatchInterval is the delivery loop cadence.
const DefaultDispatchInterval = 3 * time.Second

// Transport delivers polled events to one subscriber. Implementations wrap a
// concrete connection (SSE stream, WebSocket). Send failures mean the
// subscriber is gone and the dispatcher detaches it.
type Transport interface {
	// Send pushes a non-empty batch of events to the subscriber.
	Send(hits []store.Hit) error
	// Context is done when the subscriber disconnects.
	Context() context.Context
}

// Dispatcher runs the delivery loop: every interval it polls each
// subscription once and pushes any new events to its transport. Subscribers
// are polled concurrently so one slow consumer cannot delay the others.
type Dispatcher struct {
	poller   *Poller
	interval time.Duration
	logger   logpkg.Logger

	mu         sync.Mutex
	transports map[string]Transport

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewDispatcher builds a Dispatcher over the poller. A non-positive interval
// falls back to DefaultDispatchInterval.
func NewDispatcher(poller *Poller, interval time.Duration, logger logpkg.Logger) *Dispatcher {
	if interval <= 0 {
		interval = DefaultDispatchInterval
	}
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("dispatch"))
	}
	return &Dispatcher{
		poller:     poller,
		interval:   interval,
		logger:     logger,
		transports: map[string]Transport{},
		stopCh:     make(chan struct{}),
	}
}

// Attach subscribes clientID with the given filters and registers its
// transport with the delivery loop.
func (d *Dispatcher) Attach(clientID string, filters query.Filters, filterExpr string, t Transport) error {
	if err := d.poller.Subscribe(clientID, filters, filterExpr); err != nil {
		return err
	}
	d.mu.Lock()
	d.transports[clientID] = t
	d.mu.Unlock()
	return nil
}

// Detach removes the subscription and its transport. Idempotent.
func (d *Dispatcher) Detach(clientID string) {
	d.mu.Lock()
	delete(d.transports, clientID)
	d.mu.Unlock()
	d.poller.Unsubscribe(clientID)
}

// SubscriberCount returns the number of attached transports.
func (d *Dispatcher) SubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transports)
}

// Start launches the delivery loop. Stop halts it.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go d.run(ctx)
}

// Stop halts the delivery loop and waits for in-flight ticks to finish.
// Transports are left attached; callers tear down connections separately.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// tick polls every subscriber once, concurrently, and waits for all
// deliveries before returning so ticks never pile up per subscriber.
func (d *Dispatcher) tick(ctx context.Context) {
	d.mu.Lock()
	snapshot := make(map[string]Transport, len(d.transports))
	for id, t := range d.transports {
		snapshot[id] = t
	}
	d.mu.Unlock()

	var wg sync.WaitGroup
	for clientID, t := range snapshot {
		wg.Add(1)
		go func(clientID string, t Transport) {
			defer wg.Done()
			if t.Context().Err() != nil {
				d.Detach(clientID)
				return
			}
			hits := d.poller.Poll(ctx, clientID)
			if len(hits) == 0 {
				return
			}
			if err := t.Send(hits); err != nil {
				d.logger.Info("subscriber send failed, detaching",
					logpkg.Str("client", clientID), logpkg.Err(err))
				d.Detach(clientID)
			}
		}(clientID, t)
	}
	wg.Wait()
}
