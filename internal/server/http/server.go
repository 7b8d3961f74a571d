package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/buffer"
	"github.com/nitishkumar0777/log-ingestor-system/internal/realtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/server/http/controllers"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// Server is the HTTP boundary: ingest, query, stats, health, and the
// realtime SSE/WebSocket endpoints.
type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
}

// New builds a Server over the runtime, write buffer, and dispatcher.
func New(rt *runtime.Runtime, buf *buffer.Buffer, disp *realtime.Dispatcher, logger logpkg.Logger) *Server {
	mux := http.NewServeMux()
	registry := controllers.NewControllerRegistry(rt, buf, disp, logger)
	registry.RegisterAllRoutes(mux)
	return &Server{rt: rt, srv: &http.Server{Handler: cors(mux)}}
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
