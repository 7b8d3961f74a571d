package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nitishkumar0777/log-ingestor-system/internal/query"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// parseInt parses a positive integer query parameter.
//
// Returns 0 for empty strings or invalid values.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 0
}

// parseBool parses a boolean query parameter.
//
// Returns true for "true" or "1", false otherwise.
func parseBool(s string) bool {
	return s == "true" || s == "1"
}

// filtersFromQuery extracts the filter set from URL query parameters.
func filtersFromQuery(r *http.Request) query.Filters {
	q := r.URL.Query()
	return query.Filters{
		Level:            q.Get("level"),
		Message:          q.Get("message"),
		ResourceID:       q.Get("resourceId"),
		TraceID:          q.Get("traceId"),
		SpanID:           q.Get("spanId"),
		Commit:           q.Get("commit"),
		ParentResourceID: q.Get("parentResourceId"),
		StartTime:        q.Get("startTime"),
		EndTime:          q.Get("endTime"),
	}
}

// optionsFromQuery extracts pagination and sort options from URL query
// parameters.
func optionsFromQuery(r *http.Request) query.Options {
	q := r.URL.Query()
	return query.Options{
		Page:      parseInt(q.Get("page")),
		Size:      parseInt(q.Get("size")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}
