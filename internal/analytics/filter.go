package analytics

import "time"

type matchKind int

const (
	matchAny matchKind = iota
	matchEquals
	matchOneOf
)

// Match is an optional filter value: Any keeps every row, Equals keeps
// exact matches, OneOf keeps set members. It replaces the upstream "All"
// string sentinel.
type Match struct {
	kind   matchKind
	value  string
	values map[string]struct{}
}

func Any() Match {
	return Match{kind: matchAny}
}

func Equals(v string) Match {
	return Match{kind: matchEquals, value: v}
}

func OneOf(vs ...string) Match {
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return Match{kind: matchOneOf, values: set}
}

func (m Match) IsAny() bool {
	return m.kind == matchAny
}

// Value returns the single filter value when the match is an Equals.
func (m Match) Value() (string, bool) {
	if m.kind == matchEquals {
		return m.value, true
	}
	return "", false
}

func (m Match) Matches(v string) bool {
	switch m.kind {
	case matchEquals:
		return v == m.value
	case matchOneOf:
		_, ok := m.values[v]
		return ok
	default:
		return true
	}
}

type Filter struct {
	Column string
	Match  Match
}

// ApplyFilters keeps rows matching every filter (logical AND). Filters are
// independent, so application order never changes the result.
func ApplyFilters(t Table, filters ...Filter) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		keep := true
		for _, f := range filters {
			if !f.Match.Matches(Str(r[f.Column])) {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, copyRow(r))
		}
	}
	return out
}

// FilterDateRange keeps rows whose date cell falls within [start, end],
// inclusive on both bounds. Nil bounds are open. String cells are parsed
// with the two supported layouts.
func FilterDateRange(t Table, column string, start, end *time.Time) (Table, error) {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		d, err := ParseDate(r[column])
		if err != nil {
			return Table{}, err
		}
		if start != nil && d.Before(*start) {
			continue
		}
		if end != nil && d.After(*end) {
			continue
		}
		out.Rows = append(out.Rows, copyRow(r))
	}
	return out, nil
}
