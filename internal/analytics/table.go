package analytics

import (
	"fmt"
	"time"
)

// Row is one record of a Table keyed by column name. Dimension cells hold
// strings (or time.Time for dates), metric cells float64.
type Row map[string]any

// Table is a request-scoped tabular value. Engine transformations return
// new tables and never mutate their input.
type Table struct {
	Columns []string
	Rows    []Row
}

func NewTable(columns ...string) Table {
	return Table{Columns: columns, Rows: []Row{}}
}

func (t Table) Copy() Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, copyRow(r))
	}
	return Table{Columns: cols, Rows: rows}
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Records serializes rows for the response boundary, insertion order
// preserved.
func (t Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			rec[c] = exportCell(r[c])
		}
		out = append(out, rec)
	}
	return out
}

func copyRow(r Row) Row {
	nr := make(Row, len(r))
	for k, v := range r {
		nr[k] = v
	}
	return nr
}

func exportCell(v any) any {
	if d, ok := v.(time.Time); ok {
		return d.Format(dateLayoutISO)
	}
	return v
}

// Float coerces a cell into float64. Currency-formatted strings are
// accepted; anything unparseable reads as 0.
func Float(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return ParseMoney(x)
	default:
		return 0
	}
}

// Str coerces a cell into its string form. Dates render as YYYY-MM-DD.
func Str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(dateLayoutISO)
	default:
		return fmt.Sprint(x)
	}
}
