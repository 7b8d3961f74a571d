package buffer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	pebblestore "github.com/nitishkumar0777/log-ingestor-system/internal/storage/pebble"
)

// snapKey is the single durable location for the buffer snapshot. Written by
// the buffer only, read once at startup.
var snapKey = []byte("buffer/snapshot")

// snapshotter persists the unflushed queue as zstd-compressed JSON.
type snapshotter struct {
	db  *pebblestore.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newSnapshotter(db *pebblestore.DB) (*snapshotter, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &snapshotter{db: db, enc: enc, dec: dec}, nil
}

func (s *snapshotter) save(events []model.LogEvent) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("snapshot encode: %w", err)
	}
	compressed := s.enc.EncodeAll(raw, nil)
	if err := s.db.Set(snapKey, compressed); err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	return nil
}

func (s *snapshotter) load() ([]model.LogEvent, error) {
	compressed, err := s.db.Get(snapKey)
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot read: %w", err)
	}
	raw, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot decompress: %w", err)
	}
	var events []model.LogEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return events, nil
}
