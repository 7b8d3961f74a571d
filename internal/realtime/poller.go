// Package realtime turns the pull-based store into a push-based feed: a
// per-client subscription poller that tracks cursors, and a delivery loop
// that fans polled events out to subscriber transports on a fixed cadence.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// PollPageSize bounds one poll's result page.
const PollPageSize = 100

// subscription is the per-client state. The cursor is a composite watermark:
// the timestamp of the last delivered event plus its document ID. IDs embed
// the event timestamp and sort with it, so "ID greater than lastID" is
// exactly "strictly after the cursor", including events sharing the cursor
// instant.
type subscription struct {
	clientID string
	filters  query.Filters
	expr     celFilter

	cursor time.Time
	lastID string // empty until the first delivery
}

// Poller owns the subscription table. All mutation goes through its methods.
type Poller struct {
	searcher store.Searcher
	logger   logpkg.Logger
	pageSize int

	// now is swappable for tests.
	now func() time.Time

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewPoller builds a Poller over the given searcher.
func NewPoller(searcher store.Searcher, logger logpkg.Logger) *Poller {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("realtime"))
	}
	return &Poller{
		searcher: searcher,
		logger:   logger,
		pageSize: PollPageSize,
		now:      time.Now,
		subs:     map[string]*subscription{},
	}
}

// Subscribe creates or replaces the subscription for clientID. The cursor
// initializes to the current instant, so only events after subscribe time
// are ever delivered. filterExpr is an optional CEL expression evaluated
// against each polled event; a bad expression fails the subscribe.
func (p *Poller) Subscribe(clientID string, filters query.Filters, filterExpr string) error {
	expr, err := newCELFilter(filterExpr)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.subs[clientID] = &subscription{
		clientID: clientID,
		filters:  filters,
		expr:     expr,
		cursor:   p.now().UTC(),
	}
	p.mu.Unlock()
	p.logger.Info("client subscribed", logpkg.Str("client", clientID))
	return nil
}

// Unsubscribe removes the subscription. Idempotent if already absent.
func (p *Poller) Unsubscribe(clientID string) {
	p.mu.Lock()
	_, existed := p.subs[clientID]
	delete(p.subs, clientID)
	p.mu.Unlock()
	if existed {
		p.logger.Info("client unsubscribed", logpkg.Str("client", clientID))
	}
}

// Clients returns the IDs of all active subscriptions.
func (p *Poller) Clients() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.subs))
	for id := range p.subs {
		out = append(out, id)
	}
	return out
}

// Count returns the number of active subscriptions.
func (p *Poller) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Poll fetches events newer than the subscription's cursor in ascending
// timestamp order and advances the cursor past the last one. Store errors
// are logged and yield an empty result so one bad tick cannot destabilize
// the cadence for other subscribers. An unknown clientID yields nil.
func (p *Poller) Poll(ctx context.Context, clientID string) []store.Hit {
	p.mu.Lock()
	sub, ok := p.subs[clientID]
	if !ok {
		p.mu.Unlock()
		return nil
	}
	filters := sub.filters
	cursor := sub.cursor
	lastID := sub.lastID
	expr := sub.expr
	p.mu.Unlock()

	// The first poll uses a strict bound on the subscribe instant. Once an
	// event has been delivered the bound goes inclusive and already-seen
	// documents are dropped by ID, closing the shared-instant gap.
	strict := lastID == ""
	q := query.Realtime(filters, cursor, strict, p.pageSize)
	res, err := p.searcher.Search(ctx, q)
	if err != nil {
		p.logger.Warn("poll failed", logpkg.Str("client", clientID), logpkg.Err(err))
		return nil
	}

	seen := res.Hits
	if lastID != "" {
		seen = seen[:0:0]
		for _, h := range res.Hits {
			if h.ID > lastID {
				seen = append(seen, h)
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	// Advance the cursor past everything seen this tick, delivered or not.
	last := seen[len(seen)-1]
	if ts, err := last.Event.Time(); err == nil {
		p.mu.Lock()
		if cur, ok := p.subs[clientID]; ok && cur.lastID < last.ID {
			if ts.After(cur.cursor) {
				cur.cursor = ts
			}
			cur.lastID = last.ID
		}
		p.mu.Unlock()
	}

	if !expr.enabled {
		return seen
	}
	delivered := make([]store.Hit, 0, len(seen))
	for _, h := range seen {
		if expr.Eval(h.Event) {
			delivered = append(delivered, h)
		}
	}
	return delivered
}
