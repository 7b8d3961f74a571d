package controllers

import (
	"errors"
	"net/http"

	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
	"github.com/nitishkumar0777/log-ingestor-system/internal/runtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// QueryController handles read-path HTTP endpoints.
type QueryController struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// NewQueryController creates a new query controller.
func NewQueryController(rt *runtime.Runtime, logger logpkg.Logger) *QueryController {
	return &QueryController{rt: rt, logger: logger}
}

// RegisterRoutes registers query routes with the given mux.
func (c *QueryController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/query", c.handleQuery)
	mux.HandleFunc("/query/search", c.handleFullText)
	mux.HandleFunc("/query/regex", c.handleRegex)
}

// run executes a built query and writes the standard result envelope.
func (c *QueryController) run(w http.ResponseWriter, r *http.Request, q store.Query, opts query.Options) {
	// Config may override the built-in timeouts.
	if t := c.rt.Config().Query.SearchTimeout(); t > 0 && q.Timeout == query.SearchTimeout {
		q.Timeout = t
	}
	res, err := c.rt.Docs().Search(r.Context(), q)
	if err != nil {
		c.logger.Error("query failed", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "query failed: "+err.Error())
		return
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	writeJSON(w, map[string]any{
		"total":       res.Total,
		"totalCapped": res.TotalCapped,
		"logs":        hitsPayload(res.Hits),
		"page":        page,
		"size":        query.ClampSize(opts.Size),
	})
}

// handleQuery runs a structured filter query from URL parameters.
func (c *QueryController) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	opts := optionsFromQuery(r)
	q := query.Build(filtersFromQuery(r), opts)
	c.run(w, r, q, opts)
}

// handleFullText runs a ranked full-text search over the weighted field set.
func (c *QueryController) handleFullText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	text := r.URL.Query().Get("q")
	if text == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	opts := optionsFromQuery(r)
	q := query.FullText(text, opts)
	c.run(w, r, q, opts)
}

// handleRegex runs a regex search over one allow-listed field. Unsupported
// fields are rejected before touching the store.
func (c *QueryController) handleRegex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	field := r.URL.Query().Get("field")
	pattern := r.URL.Query().Get("pattern")
	if field == "" || pattern == "" {
		writeError(w, http.StatusBadRequest, "missing field or pattern parameter")
		return
	}
	opts := optionsFromQuery(r)
	q, err := query.Regex(field, pattern, opts)
	if err != nil {
		var uerr *query.UnsupportedFieldError
		if errors.As(err, &uerr) {
			writeError(w, http.StatusBadRequest, uerr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if t := c.rt.Config().Query.RegexTimeout(); t > 0 {
		q.Timeout = t
	}
	c.run(w, r, q, opts)
}
