package controllers

import (
	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
)

// hitEntry is the wire form of one matched document.
type hitEntry struct {
	ID    string         `json:"id"`
	Score float64        `json:"score,omitempty"`
	Log   model.LogEvent `json:"log"`
}

// hitsPayload converts store hits into their wire form. Always returns a
// non-nil slice so empty result sets serialize as [] rather than null.
func hitsPayload(hits []store.Hit) []hitEntry {
	out := make([]hitEntry, 0, len(hits))
	for _, h := range hits {
		out = append(out, hitEntry{ID: h.ID, Score: h.Score, Log: h.Event})
	}
	return out
}

// wsClientMessage is a control message received over a WebSocket connection.
type wsClientMessage struct {
	Action  string        `json:"action"`
	Filters query.Filters `json:"filters"`
	// Filter is an optional CEL expression applied to polled events.
	Filter string `json:"filter"`
}

// wsServerMessage is a message pushed to a WebSocket subscriber.
type wsServerMessage struct {
	Type  string     `json:"type"`
	Logs  []hitEntry `json:"logs,omitempty"`
	Error string     `json:"error,omitempty"`
}
