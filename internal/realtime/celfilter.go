package realtime

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
)

// celFilter wraps a compiled CEL program evaluated per polled event. When
// disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("level", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("resource_id", cel.StringType),
		cel.Variable("trace_id", cel.StringType),
		cel.Variable("span_id", cel.StringType),
		cel.Variable("commit", cel.StringType),
		// Event timestamp in ms for windowed filters
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
		// Expose the metadata object for arbitrary field filtering
		cel.Variable("metadata", cel.DynType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an event. Evaluation errors
// count as non-matches.
func (f celFilter) Eval(ev model.LogEvent) bool {
	if !f.enabled {
		return true
	}
	var tsMs int64
	if ts, err := ev.Time(); err == nil {
		tsMs = ts.UnixMilli()
	}
	meta := ev.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"level":       string(ev.Level),
		"message":     ev.Message,
		"resource_id": ev.ResourceID,
		"trace_id":    ev.TraceID,
		"span_id":     ev.SpanID,
		"commit":      ev.Commit,
		"ts_ms":       tsMs,
		"now_ms":      time.Now().UnixMilli(),
		"metadata":    meta,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
