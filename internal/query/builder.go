// Package query builds store queries from filter criteria. Constructors are
// pure: no I/O, no mutation of inputs, deterministic output.
package query

import (
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
)

// Filters is the heterogeneous filter set accepted by the query and
// subscription boundaries. Empty values are omitted from built queries.
type Filters struct {
	Level            string `json:"level,omitempty"`
	Message          string `json:"message,omitempty"`
	ResourceID       string `json:"resourceId,omitempty"`
	TraceID          string `json:"traceId,omitempty"`
	SpanID           string `json:"spanId,omitempty"`
	Commit           string `json:"commit,omitempty"`
	ParentResourceID string `json:"parentResourceId,omitempty"`
	StartTime        string `json:"startTime,omitempty"`
	EndTime          string `json:"endTime,omitempty"`
}

// Options selects the pagination window and sort for a query.
type Options struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

const (
	// MaxPageSize clamps the requested page size.
	MaxPageSize = 1000
	// TotalHitsCap bounds how far the store counts total matches.
	TotalHitsCap = 10000
	// DefaultPageSize applies when no size is requested.
	DefaultPageSize = 100

	// SearchTimeout bounds ordinary and full-text queries; RegexTimeout is
	// longer given the higher worst-case evaluation cost.
	SearchTimeout = 10 * time.Second
	RegexTimeout  = 15 * time.Second
)

// ClampSize returns size bounded to [1, MaxPageSize], defaulting when unset.
func ClampSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Window computes the store offset and clamped size for a 1-based page.
func Window(opts Options) (from, size int) {
	size = ClampSize(opts.Size)
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

// Build translates filters into a composite query: exact-match fields as
// non-scoring filter clauses, the message filter as a scoring all-terms
// match, and the time range as an inclusive-bounds filter. Absent values
// produce no clauses at all.
func Build(f Filters, opts Options) store.Query {
	var filter, must []store.Clause

	for _, tc := range []struct{ field, value string }{
		{"level", f.Level},
		{"resourceId", f.ResourceID},
		{"traceId", f.TraceID},
		{"spanId", f.SpanID},
		{"commit", f.Commit},
		{"metadata.parentResourceId", f.ParentResourceID},
	} {
		if tc.value != "" {
			filter = append(filter, store.Term{Field: tc.field, Value: tc.value})
		}
	}

	if f.Message != "" {
		must = append(must, store.Match{Field: "message", Query: f.Message})
	}

	if f.StartTime != "" || f.EndTime != "" {
		filter = append(filter, store.Range{Field: "timestamp", GTE: f.StartTime, LTE: f.EndTime})
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "timestamp"
	}
	order := store.Desc
	if opts.SortOrder == "asc" {
		order = store.Asc
	}

	from, size := Window(opts)
	return store.Query{
		Filter:         filter,
		Must:           must,
		Sort:           []store.SortField{{Field: sortBy, Order: order}},
		From:           from,
		Size:           size,
		TrackTotalHits: TotalHitsCap,
		Timeout:        SearchTimeout,
	}
}

// fullTextFields are the weighted fields searched by FullText. Message
// carries the highest weight, level and resourceId are elevated.
var fullTextFields = []store.WeightedField{
	{Field: "message", Weight: 3},
	{Field: "level", Weight: 2},
	{Field: "resourceId", Weight: 2},
	{Field: "traceId", Weight: 1},
	{Field: "spanId", Weight: 1},
	{Field: "commit", Weight: 1},
	{Field: "metadata.parentResourceId", Weight: 1},
}

// FullText builds a typo-tolerant multi-field query sorted by relevance
// then recency.
func FullText(text string, opts Options) store.Query {
	from, size := Window(opts)
	return store.Query{
		Must: []store.Clause{store.MultiMatch{
			Query:  text,
			Fields: append([]store.WeightedField(nil), fullTextFields...),
			Fuzzy:  true,
		}},
		Sort: []store.SortField{
			{Field: store.ScoreField, Order: store.Desc},
			{Field: "timestamp", Order: store.Desc},
		},
		From:           from,
		Size:           size,
		TrackTotalHits: TotalHitsCap,
		Timeout:        SearchTimeout,
	}
}

// regexFields is the allow-list of fields that accept regex queries.
// Anything else is rejected before the store is contacted.
var regexFields = map[string]bool{
	"message":                   true,
	"resourceId":                true,
	"traceId":                   true,
	"spanId":                    true,
	"commit":                    true,
	"metadata.parentResourceId": true,
}

// Regex builds a case-insensitive regex query on an allow-listed field,
// sorted by recency. Fields outside the allow-list fail with
// *UnsupportedFieldError.
func Regex(field, pattern string, opts Options) (store.Query, error) {
	if !regexFields[field] {
		return store.Query{}, &UnsupportedFieldError{Field: field}
	}
	from, size := Window(opts)
	return store.Query{
		Filter:         []store.Clause{store.Regexp{Field: field, Pattern: pattern, CaseInsensitive: true}},
		Sort:           []store.SortField{{Field: "timestamp", Order: store.Desc}},
		From:           from,
		Size:           size,
		TrackTotalHits: TotalHitsCap,
		Timeout:        RegexTimeout,
	}, nil
}

// Realtime builds the polling query for a subscription: the stored filters
// plus a timestamp constraint relative to the cursor. When strict, only
// events after the instant match; otherwise the bound is inclusive and the
// caller discards already-seen documents by ID. Results page ascending so
// the cursor can advance to the last returned event.
func Realtime(f Filters, after time.Time, strict bool, size int) store.Query {
	q := Build(f, Options{Page: 1, Size: size, SortBy: "timestamp", SortOrder: "asc"})
	bound := after.UTC().Format(time.RFC3339Nano)
	rng := store.Range{Field: "timestamp"}
	if strict {
		rng.GT = bound
	} else {
		rng.GTE = bound
	}
	q.Filter = append(q.Filter, rng)
	q.Timeout = SearchTimeout
	return q
}
