package handler

import (
	"strings"

	"xcelbot-system/internal/analytics"
)

const keyDelimiter = "|"

// CompositeKey concatenates the stringified key-column values with "|",
// writing "NULL" for missing cells. It is the row's identity for duplicate
// detection.
func CompositeKey(r analytics.Row, keyColumns []string) string {
	parts := make([]string, 0, len(keyColumns))
	for _, c := range keyColumns {
		v, ok := r[c]
		if !ok || v == nil {
			parts = append(parts, "NULL")
			continue
		}
		parts = append(parts, analytics.Str(v))
	}
	return strings.Join(parts, keyDelimiter)
}

// FilterNewRows drops rows whose composite key is already present in
// existing. Two rows with equal key columns but different other values
// count as the same record; the persisted one wins.
func FilterNewRows(t analytics.Table, existing map[string]struct{}, keyColumns []string) (analytics.Table, int, int) {
	out := analytics.Table{Columns: append([]string(nil), t.Columns...)}
	newCount, dupCount := 0, 0
	for _, r := range t.Rows {
		if _, dup := existing[CompositeKey(r, keyColumns)]; dup {
			dupCount++
			continue
		}
		out.Rows = append(out.Rows, r)
		newCount++
	}
	return out, newCount, dupCount
}
