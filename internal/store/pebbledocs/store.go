// Package pebbledocs is the bundled document store: a pebble-backed
// implementation of the store contract for single-node deployments. It
// supports the bulk-write and structured-query operations and nothing else;
// swapping in an external search engine means replacing this package behind
// the same interfaces.
package pebbledocs

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	"github.com/nitishkumar0777/log-ingestor-system/pkg/id"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// Store implements store.Store on a pebble database.
type Store struct {
	db     *pebblestore.DB
	logger logpkg.Logger

	mu      sync.Mutex
	lastSeq uint64
}

// Open initializes a Store and loads the last assigned sequence (if any).
func Open(db *pebblestore.DB, logger logpkg.Logger) (*Store, error) {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("pebbledocs"))
	}
	s := &Store{db: db, logger: logger}
	meta, err := db.Get(seqKey)
	if err == nil && len(meta) >= 8 {
		s.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return s, nil
}

// BulkWrite writes the batch as a single atomic pebble batch. Events that
// cannot be keyed (unparseable timestamp) become per-item errors rather than
// failing the operation.
func (s *Store) BulkWrite(ctx context.Context, events []model.LogEvent) (store.BulkResult, error) {
	if len(events) == 0 {
		return store.BulkResult{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	defer b.Close()

	var res store.BulkResult
	for i, e := range events {
		ts, err := e.Time()
		if err != nil {
			res.Errors = append(res.Errors, store.ItemError{Index: i, Reason: "unparseable timestamp: " + err.Error()})
			continue
		}
		// Doc keys encode the millisecond timestamp unsigned, so a pre-epoch
		// time would sort after every scan bound and never be found.
		if ts.UnixMilli() < 0 {
			res.Errors = append(res.Errors, store.ItemError{Index: i, Reason: "timestamp before unix epoch: " + e.Timestamp})
			continue
		}
		val, err := json.Marshal(e)
		if err != nil {
			res.Errors = append(res.Errors, store.ItemError{Index: i, Reason: "encode: " + err.Error()})
			continue
		}
		s.lastSeq++
		docID := id.Make(ts.UnixMilli(), s.lastSeq)
		if err := b.Set(docKey(docID), val, nil); err != nil {
			return store.BulkResult{}, err
		}
		res.Written++
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], s.lastSeq)
	if err := b.Set(seqKey, meta[:], nil); err != nil {
		return store.BulkResult{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return store.BulkResult{}, fmt.Errorf("bulk commit: %w", err)
	}
	return res, nil
}

// Search executes a structured query with a single bounded scan. Sorting by
// timestamp streams directly off key order; sorting by score collects
// matches up to the total-hits cap and sorts in memory.
func (s *Store) Search(ctx context.Context, q store.Query) (store.Result, error) {
	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	m, err := compile(q)
	if err != nil {
		return store.Result{}, err
	}

	totalCap := q.TrackTotalHits
	if totalCap <= 0 {
		totalCap = 10000
	}

	low, high := m.scanBounds()
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return store.Result{}, err
	}
	defer iter.Close()

	byScore := len(q.Sort) > 0 && q.Sort[0].Field == store.ScoreField
	reverse := !byScore && len(q.Sort) > 0 && q.Sort[0].Order == store.Desc

	var (
		res     store.Result
		matches []store.Hit
		scanned int
	)
	advance := func() bool {
		if reverse {
			return iter.Prev()
		}
		return iter.Next()
	}
	var ok bool
	if reverse {
		ok = iter.Last()
	} else {
		ok = iter.First()
	}
	for ; ok; ok = advance() {
		scanned++
		if scanned%256 == 0 {
			if err := ctx.Err(); err != nil {
				return store.Result{}, fmt.Errorf("search: %w", err)
			}
		}
		docID, valid := idFromKey(iter.Key())
		if !valid {
			continue
		}
		var e model.LogEvent
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			s.logger.Warn("skipping undecodable document", logpkg.Str("id", docID.String()), logpkg.Err(err))
			continue
		}
		matched, score := m.eval(e)
		if !matched {
			continue
		}
		res.Total++
		if byScore {
			matches = append(matches, store.Hit{ID: docID.String(), Score: score, Event: e})
		} else if res.Total > q.From && len(matches) < q.Size {
			matches = append(matches, store.Hit{ID: docID.String(), Score: score, Event: e})
		}
		if res.Total >= totalCap {
			res.TotalCapped = true
			break
		}
	}

	if byScore {
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Score != matches[j].Score {
				return matches[i].Score > matches[j].Score
			}
			// recency tie-break; IDs order by event time
			return matches[i].ID > matches[j].ID
		})
		if q.From < len(matches) {
			end := q.From + q.Size
			if q.Size <= 0 || end > len(matches) {
				end = len(matches)
			}
			matches = matches[q.From:end]
		} else {
			matches = nil
		}
	}
	res.Hits = matches
	return res, nil
}
