package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store/pebbledocs"
)

func newTestStore(t *testing.T) *pebbledocs.Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s, err := pebbledocs.Open(db, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func seed(t *testing.T, s *pebbledocs.Store, events ...model.LogEvent) {
	t.Helper()
	res, err := s.BulkWrite(context.Background(), events)
	if err != nil {
		t.Fatalf("bulk write: %v", err)
	}
	if res.Written != len(events) {
		t.Fatalf("seed: written=%d errors=%v", res.Written, res.Errors)
	}
}

func at(t *testing.T, base time.Time, offset time.Duration, level model.Level, msg string) model.LogEvent {
	t.Helper()
	return model.LogEvent{
		Level:     level,
		Message:   msg,
		Timestamp: base.Add(offset).UTC().Format(time.RFC3339Nano),
	}
}

func TestPollDeliversOnlyEventsAfterSubscribe(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2023, 9, 15, 8, 0, 0, 0, time.UTC)

	seed(t, s, at(t, base, -time.Minute, model.LevelInfo, "before subscribe"))

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	if err := p.Subscribe("c1", query.Filters{}, ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	seed(t, s,
		at(t, base, time.Second, model.LevelInfo, "after one"),
		at(t, base, 2*time.Second, model.LevelError, "after two"),
	)

	hits := p.Poll(context.Background(), "c1")
	if len(hits) != 2 {
		t.Fatalf("hits: %d", len(hits))
	}
	if hits[0].Event.Message != "after one" || hits[1].Event.Message != "after two" {
		t.Fatalf("order: %q, %q", hits[0].Event.Message, hits[1].Event.Message)
	}
}

func TestPollAdvancesCursorWithoutRedelivery(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2023, 9, 15, 8, 0, 0, 0, time.UTC)

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	if err := p.Subscribe("c1", query.Filters{}, ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	seed(t, s, at(t, base, time.Second, model.LevelInfo, "first"))
	if hits := p.Poll(context.Background(), "c1"); len(hits) != 1 {
		t.Fatalf("first poll: %d hits", len(hits))
	}
	if hits := p.Poll(context.Background(), "c1"); len(hits) != 0 {
		t.Fatalf("redelivered: %d hits", len(hits))
	}

	// A later event at the exact cursor instant must still be delivered:
	// IDs order by insertion within the same timestamp.
	seed(t, s, at(t, base, time.Second, model.LevelInfo, "same instant"))
	hits := p.Poll(context.Background(), "c1")
	if len(hits) != 1 || hits[0].Event.Message != "same instant" {
		t.Fatalf("same-instant delivery: %+v", hits)
	}
	if hits := p.Poll(context.Background(), "c1"); len(hits) != 0 {
		t.Fatalf("same-instant redelivered: %d hits", len(hits))
	}
}

func TestPollAppliesSubscriptionFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2023, 9, 15, 8, 0, 0, 0, time.UTC)

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	if err := p.Subscribe("errs", query.Filters{Level: "error"}, ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	seed(t, s,
		at(t, base, time.Second, model.LevelInfo, "noise"),
		at(t, base, 2*time.Second, model.LevelError, "boom"),
		at(t, base, 3*time.Second, model.LevelDebug, "more noise"),
	)

	hits := p.Poll(context.Background(), "errs")
	if len(hits) != 1 || hits[0].Event.Message != "boom" {
		t.Fatalf("filtered poll: %+v", hits)
	}
}

func TestPollCELFilter(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2023, 9, 15, 8, 0, 0, 0, time.UTC)

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	err := p.Subscribe("c1", query.Filters{}, `level == "error" && message.contains("timeout")`)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	seed(t, s,
		at(t, base, time.Second, model.LevelError, "connection timeout"),
		at(t, base, 2*time.Second, model.LevelError, "disk full"),
		at(t, base, 3*time.Second, model.LevelInfo, "timeout recovered"),
	)

	hits := p.Poll(context.Background(), "c1")
	if len(hits) != 1 || hits[0].Event.Message != "connection timeout" {
		t.Fatalf("cel poll: %+v", hits)
	}

	// The cursor advanced past the rejected events too.
	if hits := p.Poll(context.Background(), "c1"); len(hits) != 0 {
		t.Fatalf("rescan after cel rejection: %d hits", len(hits))
	}
}

func TestSubscribeRejectsBadCELExpression(t *testing.T) {
	p := NewPoller(newTestStore(t), nil)
	if err := p.Subscribe("c1", query.Filters{}, `level ==`); err == nil {
		t.Fatal("expected compile error")
	}
	if p.Count() != 0 {
		t.Fatalf("count after failed subscribe: %d", p.Count())
	}
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, store.Query) (store.Result, error) {
	return store.Result{}, errors.New("store unavailable")
}

func TestPollStoreErrorYieldsEmptyResult(t *testing.T) {
	p := NewPoller(failingSearcher{}, nil)
	if err := p.Subscribe("c1", query.Filters{}, ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if hits := p.Poll(context.Background(), "c1"); hits != nil {
		t.Fatalf("hits on store error: %+v", hits)
	}
	// Subscription survives the failure.
	if p.Count() != 1 {
		t.Fatalf("count: %d", p.Count())
	}
}

func TestPollUnknownClient(t *testing.T) {
	p := NewPoller(newTestStore(t), nil)
	if hits := p.Poll(context.Background(), "ghost"); hits != nil {
		t.Fatalf("hits for unknown client: %+v", hits)
	}
}

type chanTransport struct {
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	batches [][]store.Hit
	fail    bool
}

func newChanTransport() *chanTransport {
	ctx, cancel := context.WithCancel(context.Background())
	return &chanTransport{ctx: ctx, cancel: cancel}
}

func (c *chanTransport) Send(hits []store.Hit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("broken pipe")
	}
	c.batches = append(c.batches, hits)
	return nil
}

func (c *chanTransport) Context() context.Context { return c.ctx }

func (c *chanTransport) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcherDeliversOnCadence(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Add(-time.Minute)

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	d := NewDispatcher(p, 20*time.Millisecond, nil)

	tr := newChanTransport()
	if err := d.Attach("c1", query.Filters{}, "", tr); err != nil {
		t.Fatalf("attach: %v", err)
	}

	d.Start(context.Background())
	defer d.Stop()

	seed(t, s, at(t, base, time.Second, model.LevelInfo, "pushed"))
	waitFor(t, 2*time.Second, func() bool { return tr.received() == 1 })
}

func TestDispatcherDetachesFailedTransport(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Add(-time.Minute)

	p := NewPoller(s, nil)
	p.now = func() time.Time { return base }
	d := NewDispatcher(p, 20*time.Millisecond, nil)

	tr := newChanTransport()
	tr.fail = true
	if err := d.Attach("c1", query.Filters{}, "", tr); err != nil {
		t.Fatalf("attach: %v", err)
	}

	d.Start(context.Background())
	defer d.Stop()

	seed(t, s, at(t, base, time.Second, model.LevelInfo, "doomed"))
	waitFor(t, 2*time.Second, func() bool { return d.SubscriberCount() == 0 && p.Count() == 0 })
}

func TestDispatcherDetachesClosedContext(t *testing.T) {
	p := NewPoller(newTestStore(t), nil)
	d := NewDispatcher(p, 20*time.Millisecond, nil)

	tr := newChanTransport()
	if err := d.Attach("c1", query.Filters{}, "", tr); err != nil {
		t.Fatalf("attach: %v", err)
	}
	tr.cancel()

	d.Start(context.Background())
	defer d.Stop()

	waitFor(t, 2*time.Second, func() bool { return d.SubscriberCount() == 0 })
}
