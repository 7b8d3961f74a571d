package controllers

import (
	"net/http"

	"github.com/nitishkumar0777/log-ingestor-system/internal/buffer"
	"github.com/nitishkumar0777/log-ingestor-system/internal/realtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general  *GeneralController
	ingest   *IngestController
	query    *QueryController
	realtime *RealtimeController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime, write buffer,
// and dispatcher.
func NewControllerRegistry(rt *runtime.Runtime, buf *buffer.Buffer, disp *realtime.Dispatcher, logger logpkg.Logger) *ControllerRegistry {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("http"))
	}
	return &ControllerRegistry{
		general:  NewGeneralController(rt, disp),
		ingest:   NewIngestController(rt, buf, logger),
		query:    NewQueryController(rt, logger),
		realtime: NewRealtimeController(disp, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.ingest.RegisterRoutes(mux)
	r.query.RegisterRoutes(mux)
	r.realtime.RegisterRoutes(mux)
}
