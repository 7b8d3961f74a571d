package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
)

// sseTransport implements the realtime.Transport interface for Server-Sent
// Events. Polled batches are formatted as SSE data events.
type sseTransport struct {
	w http.ResponseWriter
	r *http.Request

	mu sync.Mutex
}

// Send formats and sends a batch of events as one SSE data event.
//
// The batch is JSON-encoded and sent with the "data: " prefix followed by
// two newlines as required by the SSE specification, then flushed so the
// client sees it immediately.
func (s *sseTransport) Send(hits []store.Hit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(map[string]any{"type": "newLogs", "logs": hitsPayload(hits)})
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Context returns the request context for cancellation.
func (s *sseTransport) Context() context.Context {
	return s.r.Context()
}
