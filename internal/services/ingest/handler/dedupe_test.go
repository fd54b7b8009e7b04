package handler

import (
	"testing"

	"xcelbot-system/internal/analytics"
)

func TestFilterNewRows(t *testing.T) {
	in := analytics.Table{
		Columns: []string{"Store", "Date"},
		Rows: []analytics.Row{
			{"Store": "A", "Date": "2025-01-01"},
			{"Store": "A", "Date": "2025-01-02"},
		},
	}
	existing := map[string]struct{}{"A|2025-01-01": {}}

	kept, newCount, dupCount := FilterNewRows(in, existing, []string{"Store", "Date"})
	if newCount != 1 || dupCount != 1 {
		t.Fatalf("new=%d dup=%d, want 1/1", newCount, dupCount)
	}
	if len(kept.Rows) != 1 || kept.Rows[0]["Date"] != "2025-01-02" {
		t.Errorf("kept the wrong row: %v", kept.Rows)
	}
}

// Running the filter again after the store absorbed the first run's output
// must find nothing new.
func TestFilterNewRowsIdempotent(t *testing.T) {
	in := analytics.Table{
		Columns: []string{"Store", "Date"},
		Rows: []analytics.Row{
			{"Store": "A", "Date": "2025-01-01"},
			{"Store": "B", "Date": "2025-01-01"},
		},
	}
	keyCols := []string{"Store", "Date"}
	existing := map[string]struct{}{}

	kept, newCount, _ := FilterNewRows(in, existing, keyCols)
	if newCount != 2 {
		t.Fatalf("first run new=%d, want 2", newCount)
	}
	for _, r := range kept.Rows {
		existing[CompositeKey(r, keyCols)] = struct{}{}
	}

	_, newCount, dupCount := FilterNewRows(in, existing, keyCols)
	if newCount != 0 || dupCount != 2 {
		t.Errorf("second run new=%d dup=%d, want 0/2", newCount, dupCount)
	}
}

func TestCompositeKeyMissingValues(t *testing.T) {
	r := analytics.Row{"Store": "A", "Server": nil}
	got := CompositeKey(r, []string{"Store", "Server", "Date"})
	if got != "A|NULL|NULL" {
		t.Errorf("key = %q, want A|NULL|NULL", got)
	}
}

// Rows whose key columns match but whose other values differ are still
// duplicates; the persisted row wins.
func TestFilterNewRowsIgnoresNonKeyColumns(t *testing.T) {
	in := analytics.Table{
		Columns: []string{"Store", "Date", "Net Price"},
		Rows:    []analytics.Row{{"Store": "A", "Date": "2025-01-01", "Net Price": 99.0}},
	}
	existing := map[string]struct{}{"A|2025-01-01": {}}
	_, newCount, dupCount := FilterNewRows(in, existing, []string{"Store", "Date"})
	if newCount != 0 || dupCount != 1 {
		t.Errorf("new=%d dup=%d, want 0/1", newCount, dupCount)
	}
}
