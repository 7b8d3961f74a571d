// Package store defines the document store collaborator contract: a bulk
// write operation and a structured query operation. The pipeline consumes
// the store only through these two operations; indexing and ranking
// internals belong to the implementation behind them.
package store

import (
	"context"
	"time"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
)

// SortOrder is the direction of a sort field.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ScoreField is the pseudo-field that sorts by relevance score.
const ScoreField = "_score"

// SortField orders results by a document field or by ScoreField.
type SortField struct {
	Field string
	Order SortOrder
}

// Clause is one constraint within a query. Clauses placed in a query's
// Filter group narrow results without scoring; clauses in the Must group
// also contribute to the relevance score.
type Clause interface {
	isClause()
}

// Term matches a field for exact equality.
type Term struct {
	Field string
	Value string
}

// Match matches free text against a field with all terms required.
type Match struct {
	Field string
	Query string
}

// Range constrains the timestamp field. Bounds are RFC3339 instants; GT is
// exclusive, GTE and LTE are inclusive. Zero-value bounds are open.
type Range struct {
	Field string
	GT    string
	GTE   string
	LTE   string
}

// Regexp matches a field against a regular expression.
type Regexp struct {
	Field           string
	Pattern         string
	CaseInsensitive bool
}

// WeightedField names a field and its relevance weight for MultiMatch.
type WeightedField struct {
	Field  string
	Weight float64
}

// MultiMatch matches free text across several weighted fields with
// typo-tolerant term matching. At least one field must match.
type MultiMatch struct {
	Query  string
	Fields []WeightedField
	Fuzzy  bool
}

func (Term) isClause()       {}
func (Match) isClause()      {}
func (Range) isClause()      {}
func (Regexp) isClause()     {}
func (MultiMatch) isClause() {}

// Query is the store-agnostic structured query. Filter and Must groups
// combine with AND semantics.
type Query struct {
	Filter []Clause
	Must   []Clause

	Sort []SortField

	// From/Size select the pagination window.
	From int
	Size int

	// TrackTotalHits caps how far the store counts total matches.
	TrackTotalHits int

	// Timeout bounds query execution.
	Timeout time.Duration
}

// Hit is one matched document.
type Hit struct {
	ID    string         `json:"id"`
	Score float64        `json:"score,omitempty"`
	Event model.LogEvent `json:"event"`
}

// Result is an ordered page of hits plus a possibly capped total count.
type Result struct {
	Total       int
	TotalCapped bool
	Hits        []Hit
}

// ItemError reports a per-document failure within a bulk write.
type ItemError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkResult reports the outcome of a bulk write. Item errors are partial
// failures; the write as a whole succeeded.
type BulkResult struct {
	Written int
	Errors  []ItemError
}

// BulkWriter accepts an ordered batch of events in one bulk operation.
type BulkWriter interface {
	BulkWrite(ctx context.Context, events []model.LogEvent) (BulkResult, error)
}

// Searcher executes a structured query.
type Searcher interface {
	Search(ctx context.Context, q Query) (Result, error)
}

// Store is the full collaborator surface.
type Store interface {
	BulkWriter
	Searcher
}
