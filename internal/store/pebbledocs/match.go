package pebbledocs

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/nitishkumar0777/log-ingestor-system/internal/model"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	"github.com/nitishkumar0777/log-ingestor-system/pkg/id"
)

// matcher is a compiled query: clause evaluation closures plus scan bounds
// derived from timestamp ranges. Compilation happens once per query so
// regexes and time bounds are not re-parsed per document.
type matcher struct {
	filter []clauseFn
	must   []clauseFn

	// bounds in ms, derived from timestamp ranges; zero means open.
	lowMs  int64
	highMs int64
}

// clauseFn evaluates one clause against an event. The score is only
// meaningful for clauses in the must group.
type clauseFn func(e model.LogEvent) (bool, float64)

func compile(q store.Query) (*matcher, error) {
	m := &matcher{}
	for _, c := range q.Filter {
		fn, err := m.compileClause(c)
		if err != nil {
			return nil, err
		}
		m.filter = append(m.filter, fn)
	}
	for _, c := range q.Must {
		fn, err := m.compileClause(c)
		if err != nil {
			return nil, err
		}
		m.must = append(m.must, fn)
	}
	return m, nil
}

func (m *matcher) compileClause(c store.Clause) (clauseFn, error) {
	switch cl := c.(type) {
	case store.Term:
		return func(e model.LogEvent) (bool, float64) {
			return e.Field(cl.Field) == cl.Value, 1
		}, nil

	case store.Match:
		terms := tokenize(cl.Query)
		return func(e model.LogEvent) (bool, float64) {
			have := tokenSet(tokenize(e.Field(cl.Field)))
			for _, t := range terms {
				if !have[t] {
					return false, 0
				}
			}
			return true, float64(len(terms))
		}, nil

	case store.Range:
		gt, gte, lte, err := parseBounds(cl)
		if err != nil {
			return nil, err
		}
		m.applyBounds(gt, gte, lte)
		return func(e model.LogEvent) (bool, float64) {
			ts, err := e.Time()
			if err != nil {
				return false, 0
			}
			if !gt.IsZero() && !ts.After(gt) {
				return false, 0
			}
			if !gte.IsZero() && ts.Before(gte) {
				return false, 0
			}
			if !lte.IsZero() && ts.After(lte) {
				return false, 0
			}
			return true, 1
		}, nil

	case store.Regexp:
		pattern := cl.Pattern
		if cl.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("regex %q: %w", cl.Pattern, err)
		}
		return func(e model.LogEvent) (bool, float64) {
			return re.MatchString(e.Field(cl.Field)), 1
		}, nil

	case store.MultiMatch:
		terms := tokenize(cl.Query)
		fields := cl.Fields
		fuzzy := cl.Fuzzy
		return func(e model.LogEvent) (bool, float64) {
			var total float64
			for _, term := range terms {
				var best float64
				for _, wf := range fields {
					s := termScore(term, tokenize(e.Field(wf.Field)), fuzzy) * wf.Weight
					if s > best {
						best = s
					}
				}
				total += best
			}
			return total > 0, total
		}, nil
	}
	return nil, fmt.Errorf("unsupported clause %T", c)
}

// eval runs all clause groups with AND semantics. Must-group scores sum into
// the relevance score; filter clauses never contribute.
func (m *matcher) eval(e model.LogEvent) (bool, float64) {
	for _, fn := range m.filter {
		if ok, _ := fn(e); !ok {
			return false, 0
		}
	}
	var score float64
	for _, fn := range m.must {
		ok, s := fn(e)
		if !ok {
			return false, 0
		}
		score += s
	}
	return true, score
}

func (m *matcher) applyBounds(gt, gte, lte time.Time) {
	if !gt.IsZero() {
		if ms := gt.UnixMilli(); m.lowMs == 0 || ms > m.lowMs {
			m.lowMs = ms
		}
	}
	if !gte.IsZero() {
		if ms := gte.UnixMilli(); m.lowMs == 0 || ms > m.lowMs {
			m.lowMs = ms
		}
	}
	if !lte.IsZero() {
		if ms := lte.UnixMilli(); m.highMs == 0 || ms < m.highMs {
			m.highMs = ms
		}
	}
}

// scanBounds narrows the key scan using timestamp bounds. Bounds are loose
// (millisecond resolution); exact strictness is enforced per document by the
// range clause itself.
func (m *matcher) scanBounds() (low, high []byte) {
	low = docKey(id.Make(0, 0))
	if m.lowMs > 0 {
		low = docKey(id.Make(m.lowMs, 0))
	}
	if m.highMs > 0 {
		high = docKey(id.Make(m.highMs+1, 0))
	} else {
		high = append(append([]byte{}, docPrefix...), 0xFF)
	}
	return low, high
}

func parseBounds(cl store.Range) (gt, gte, lte time.Time, err error) {
	parse := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("range bound %q: %w", s, err)
		}
		return t, nil
	}
	if gt, err = parse(cl.GT); err != nil {
		return
	}
	if gte, err = parse(cl.GTE); err != nil {
		return
	}
	lte, err = parse(cl.LTE)
	return
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// termScore grades how well a query term matches any of the field's tokens:
// exact > prefix > single-edit typo.
func termScore(term string, tokens []string, fuzzy bool) float64 {
	best := 0.0
	for _, tok := range tokens {
		switch {
		case tok == term:
			return 1.0
		case strings.HasPrefix(tok, term):
			if best < 0.7 {
				best = 0.7
			}
		case fuzzy && withinOneEdit(term, tok):
			if best < 0.5 {
				best = 0.5
			}
		}
	}
	return best
}

// withinOneEdit reports whether a and b differ by at most one insertion,
// deletion, or substitution.
func withinOneEdit(a, b string) bool {
	la, lb := len(a), len(b)
	if la > lb {
		a, b, la, lb = b, a, lb, la
	}
	if lb-la > 1 {
		return false
	}
	i, j, edits := 0, 0, 0
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		if la == lb {
			i++
		}
		j++
	}
	if j < lb || i < la {
		edits++
	}
	return edits <= 1
}
