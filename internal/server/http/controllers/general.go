package controllers

import (
	"net/http"

	"github.com/nitishkumar0777/log-ingestor-system/internal/realtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
)

// GeneralController handles general HTTP endpoints like health checks.
type GeneralController struct {
	rt   *runtime.Runtime
	disp *realtime.Dispatcher
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, disp *realtime.Dispatcher) *GeneralController {
	return &GeneralController{rt: rt, disp: disp}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", c.handleHealth)
}

// handleHealth returns the health status of the service plus the number of
// live realtime subscribers.
//
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]any{
		"status":      "ok",
		"subscribers": c.disp.SubscriberCount(),
	})
}
