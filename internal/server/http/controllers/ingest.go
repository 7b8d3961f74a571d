package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/nitishkumar0777/log-ingestor-system/internal/buffer"
	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// bulkAsyncThreshold is the batch size above which /ingest/bulk stops writing
// synchronously and hands the batch to the write buffer instead.
const bulkAsyncThreshold = 10000

// maxBodyBytes bounds ingest request bodies.
const maxBodyBytes = 64 << 20

// IngestController handles write-path HTTP endpoints.
//
// Events land either in the write buffer (asynchronous, 202) or go straight
// to the document store (synchronous, 201/207).
type IngestController struct {
	rt     *runtime.Runtime
	buf    *buffer.Buffer
	logger logpkg.Logger
}

// NewIngestController creates a new ingest controller.
func NewIngestController(rt *runtime.Runtime, buf *buffer.Buffer, logger logpkg.Logger) *IngestController {
	return &IngestController{rt: rt, buf: buf, logger: logger}
}

// RegisterRoutes registers ingest routes with the given mux.
func (c *IngestController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ingest", c.handleIngest)
	mux.HandleFunc("/ingest/sync", c.handleIngestSync)
	mux.HandleFunc("/ingest/bulk", c.handleIngestBulk)
	mux.HandleFunc("/ingest/stats", c.handleStats)
}

func (c *IngestController) readEvents(w http.ResponseWriter, r *http.Request) ([]model.LogEvent, bool, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false, false
	}
	events, isArray, err := model.ParseEvents(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return nil, false, false
	}
	return events, isArray, true
}

// handleIngest accepts a single event or an array and queues it in the write
// buffer. Valid events are acknowledged with 202 plus the queue status;
// invalid ones are reported by index.
func (c *IngestController) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	events, isArray, ok := c.readEvents(w, r)
	if !ok {
		return
	}
	if !isArray {
		if err := model.Validate(events[0]); err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				writeJSONStatus(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.buf.Enqueue(events[0])
		writeJSONStatus(w, http.StatusAccepted, map[string]any{
			"status": "queued",
			"queue":  c.buf.Status(),
		})
		return
	}

	valid, rejected := model.ValidateBatch(events)
	if len(valid) == 0 {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"rejected": rejected})
		return
	}
	for _, e := range valid {
		c.buf.Enqueue(e)
	}
	writeJSONStatus(w, http.StatusAccepted, map[string]any{
		"status":   "queued",
		"queued":   len(valid),
		"rejected": rejected,
		"queue":    c.buf.Status(),
	})
}

// handleIngestSync writes a single event to the store before responding.
func (c *IngestController) handleIngestSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	events, isArray, ok := c.readEvents(w, r)
	if !ok {
		return
	}
	if isArray {
		writeError(w, http.StatusBadRequest, "expected a single log event; use /ingest/bulk for arrays")
		return
	}
	if err := model.Validate(events[0]); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeJSONStatus(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := c.rt.Docs().BulkWrite(r.Context(), events)
	if err != nil {
		c.logger.Error("sync write failed", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "write failed")
		return
	}
	if len(res.Errors) > 0 {
		writeError(w, http.StatusInternalServerError, res.Errors[0].Reason)
		return
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{"written": res.Written})
}

// handleIngestBulk writes an array of events. Oversized batches are queued
// asynchronously; otherwise the write is synchronous, with per-item errors
// reported via 207. With ?partial=true, invalid entries are skipped and the
// valid subset is ingested; without it, any invalid entry fails the request.
func (c *IngestController) handleIngestBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	events, isArray, ok := c.readEvents(w, r)
	if !ok {
		return
	}
	if !isArray {
		writeError(w, http.StatusBadRequest, "expected an array of log events")
		return
	}
	partial := parseBool(r.URL.Query().Get("partial"))

	valid, rejected := model.ValidateBatch(events)
	if len(rejected) > 0 && !partial {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"rejected": rejected})
		return
	}
	if len(valid) == 0 {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"rejected": rejected})
		return
	}

	if len(events) > bulkAsyncThreshold {
		for _, e := range valid {
			c.buf.Enqueue(e)
		}
		writeJSONStatus(w, http.StatusAccepted, map[string]any{
			"status":   "queued",
			"queued":   len(valid),
			"rejected": rejected,
			"queue":    c.buf.Status(),
		})
		return
	}

	res, err := c.rt.Docs().BulkWrite(r.Context(), valid)
	if err != nil {
		c.logger.Error("bulk write failed", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "write failed")
		return
	}
	status := http.StatusCreated
	if len(res.Errors) > 0 || len(rejected) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSONStatus(w, status, map[string]any{
		"written":  res.Written,
		"errors":   res.Errors,
		"rejected": rejected,
	})
}

// handleStats returns the write buffer status.
func (c *IngestController) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, c.buf.Status())
}
