package analytics

import "testing"

func salesSpec() AggSpec {
	return AggSpec{
		GroupBy: "Store",
		Metrics: []Metric{
			{Column: "Tw Sales", Fn: AggSum},
			{Column: "Lw Sales", Fn: AggSum},
		},
		Deltas: []Delta{{Column: "Tw vs. Lw", Cur: "Tw Sales", Prev: "Lw Sales"}},
	}
}

func findRow(t *testing.T, tbl Table, dim, value string) Row {
	t.Helper()
	for _, r := range tbl.Rows {
		if Str(r[dim]) == value {
			return r
		}
	}
	t.Fatalf("no row with %s=%s", dim, value)
	return nil
}

func TestAggregateGrandTotalAndDeltas(t *testing.T) {
	in := Table{
		Columns: []string{"Store", "Tw Sales", "Lw Sales"},
		Rows: []Row{
			{"Store": "A", "Tw Sales": 100.0, "Lw Sales": 50.0},
			{"Store": "B", "Tw Sales": 200.0, "Lw Sales": 200.0},
		},
	}
	out := Aggregate(in, salesSpec())

	a := findRow(t, out, "Store", "A")
	if a["Tw vs. Lw"] != 100.0 {
		t.Errorf("A delta = %v, want 100.0", a["Tw vs. Lw"])
	}
	b := findRow(t, out, "Store", "B")
	if b["Tw vs. Lw"] != 0.0 {
		t.Errorf("B delta = %v, want 0.0", b["Tw vs. Lw"])
	}

	gt := out.Rows[len(out.Rows)-1]
	if Str(gt["Store"]) != GrandTotalLabel {
		t.Fatalf("last row is %v, want Grand Total", gt["Store"])
	}
	if gt["Tw Sales"] != 300.0 || gt["Lw Sales"] != 250.0 {
		t.Errorf("Grand Total sums = %v / %v, want 300 / 250", gt["Tw Sales"], gt["Lw Sales"])
	}
	// Delta recomputed from the grand-total sums, not averaged per row.
	if gt["Tw vs. Lw"] != 20.0 {
		t.Errorf("Grand Total delta = %v, want 20.0", gt["Tw vs. Lw"])
	}
}

// Grand Total metric cells must equal the column-wise sum of the group
// rows, including when rows were summed from multiple input records.
func TestAggregateGrandTotalConsistency(t *testing.T) {
	in := Table{
		Columns: []string{"Store", "Tw Sales", "Lw Sales"},
		Rows: []Row{
			{"Store": "A", "Tw Sales": 10.11, "Lw Sales": 5.0},
			{"Store": "A", "Tw Sales": 20.22, "Lw Sales": 5.0},
			{"Store": "B", "Tw Sales": 30.33, "Lw Sales": 10.0},
		},
	}
	out := Aggregate(in, salesSpec())

	var tw, lw float64
	for _, r := range out.Rows[:len(out.Rows)-1] {
		tw += Float(r["Tw Sales"])
		lw += Float(r["Lw Sales"])
	}
	gt := out.Rows[len(out.Rows)-1]
	if gt["Tw Sales"] != Round2(tw) || gt["Lw Sales"] != Round2(lw) {
		t.Errorf("Grand Total %v/%v != column sums %v/%v",
			gt["Tw Sales"], gt["Lw Sales"], Round2(tw), Round2(lw))
	}
}

func TestAggregateZeroGuard(t *testing.T) {
	in := Table{
		Columns: []string{"Store", "Tw Sales", "Lw Sales"},
		Rows:    []Row{{"Store": "A", "Tw Sales": 100.0, "Lw Sales": 0.0}},
	}
	out := Aggregate(in, salesSpec())
	a := findRow(t, out, "Store", "A")
	if a["Tw vs. Lw"] != 0.0 {
		t.Errorf("zero denominator delta = %v, want exactly 0.0", a["Tw vs. Lw"])
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	in := Table{Columns: []string{"Store", "Tw Sales", "Lw Sales"}}
	out := Aggregate(in, salesSpec())
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want Grand-Total-only table", len(out.Rows))
	}
	gt := out.Rows[0]
	if Str(gt["Store"]) != GrandTotalLabel {
		t.Fatalf("row = %v, want Grand Total", gt["Store"])
	}
	if gt["Tw Sales"] != 0.0 || gt["Lw Sales"] != 0.0 || gt["Tw vs. Lw"] != 0.0 {
		t.Errorf("Grand Total not all-zero: %v", gt)
	}
}

func TestAggregateMeanAndIntegerRounding(t *testing.T) {
	in := Table{
		Columns: []string{"Store", "Net Price", "Qty"},
		Rows: []Row{
			{"Store": "A", "Net Price": 10.0, "Qty": 1.4},
			{"Store": "A", "Net Price": 15.0, "Qty": 1.4},
		},
	}
	out := Aggregate(in, AggSpec{
		GroupBy: "Store",
		Metrics: []Metric{
			{Column: "Net Price", Fn: AggMean},
			{Column: "Qty", Fn: AggSum, Integer: true},
		},
	})
	a := findRow(t, out, "Store", "A")
	if a["Net Price"] != 12.5 {
		t.Errorf("mean = %v, want 12.5", a["Net Price"])
	}
	if a["Qty"] != 3.0 {
		t.Errorf("integer metric = %v, want 3", a["Qty"])
	}
}

func TestAggregatePinnedOrder(t *testing.T) {
	in := Table{
		Columns: []string{"Day", "Tw Sales"},
		Rows: []Row{
			{"Day": "Wednesday", "Tw Sales": 1.0},
			{"Day": "Monday", "Tw Sales": 1.0},
			{"Day": "Tuesday", "Tw Sales": 1.0},
		},
	}
	out := Aggregate(in, AggSpec{
		GroupBy: "Day",
		Metrics: []Metric{{Column: "Tw Sales", Fn: AggSum}},
		Order:   []string{"Monday", "Tuesday", "Wednesday"},
	})
	want := []string{"Monday", "Tuesday", "Wednesday", GrandTotalLabel}
	for i, w := range want {
		if got := Str(out.Rows[i]["Day"]); got != w {
			t.Errorf("row %d = %s, want %s", i, got, w)
		}
	}
}
