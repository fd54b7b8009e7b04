package analytics

import (
	"testing"
	"time"
)

func filterFixture() Table {
	return Table{
		Columns: []string{"Store", "Year", "Category"},
		Rows: []Row{
			{"Store": "Midtown", "Year": "2025", "Category": "In-House"},
			{"Store": "Midtown", "Year": "2024", "Category": "DD"},
			{"Store": "Downtown", "Year": "2025", "Category": "In-House"},
			{"Store": "Uptown", "Year": "2025", "Category": "GH"},
		},
	}
}

func TestApplyFiltersOrderIndependence(t *testing.T) {
	in := filterFixture()
	f1 := Filter{Column: "Store", Match: Equals("Midtown")}
	f2 := Filter{Column: "Year", Match: Equals("2025")}

	a := ApplyFilters(in, f1, f2)
	b := ApplyFilters(in, f2, f1)

	if len(a.Rows) != 1 || len(b.Rows) != 1 {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	if a.Rows[0]["Category"] != b.Rows[0]["Category"] {
		t.Error("filter order changed the result set")
	}
}

func TestApplyFiltersOneOf(t *testing.T) {
	in := filterFixture()
	out := ApplyFilters(in, Filter{Column: "Store", Match: OneOf("Midtown", "Uptown")})
	if len(out.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(out.Rows))
	}
}

func TestApplyFiltersAnyIsNoOp(t *testing.T) {
	in := filterFixture()
	out := ApplyFilters(in, Filter{Column: "Store", Match: Any()})
	if len(out.Rows) != len(in.Rows) {
		t.Fatalf("rows = %d, want %d", len(out.Rows), len(in.Rows))
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	in := filterFixture()
	out := ApplyFilters(in, Filter{Column: "Year", Match: Equals("2025")})
	out.Rows[0]["Store"] = "changed"
	if in.Rows[0]["Store"] != "Midtown" {
		t.Error("filtering mutated the source table")
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	in := Table{
		Columns: []string{"Date"},
		Rows: []Row{
			{"Date": "2025-01-01"},
			{"Date": "2025-01-05"},
			{"Date": "2025-01-10"},
			{"Date": "2025-01-11"},
		},
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	out, err := FilterDateRange(in, "Date", &start, &end)
	if err != nil {
		t.Fatalf("FilterDateRange: %v", err)
	}
	if len(out.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (bounds inclusive)", len(out.Rows))
	}
}

func TestFilterDateRangeOpenBounds(t *testing.T) {
	in := Table{
		Columns: []string{"Date"},
		Rows:    []Row{{"Date": "2025-01-05"}, {"Date": "2025-02-05"}},
	}
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	out, err := FilterDateRange(in, "Date", nil, &end)
	if err != nil {
		t.Fatalf("FilterDateRange: %v", err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.Rows))
	}
}

func TestFilterDateRangeBadCell(t *testing.T) {
	in := Table{Columns: []string{"Date"}, Rows: []Row{{"Date": "13/01/2025"}}}
	if _, err := FilterDateRange(in, "Date", nil, nil); err == nil {
		t.Fatal("expected date format error")
	}
}
