package analytics

import "testing"

func foodMetrics() []MetricSpec {
	cols := []string{
		"Net Sales", "Orders", "Lbr Hrs", "Lbr Pay",
		"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other",
	}
	specs := make([]MetricSpec, 0, len(cols))
	for _, c := range cols {
		specs = append(specs, MetricSpec{Label: c, ThisCol: c, LastCol: c, BudgetCol: c})
	}
	return specs
}

func foodDerived() []Derived {
	return []Derived{
		{Label: "Avg Ticket", After: "Orders", Op: DeriveRatio, Num: "Net Sales", Den: "Orders"},
		{Label: "Lbr %", After: "Lbr Pay", Op: DerivePct, Num: "Lbr Pay", Den: "Net Sales"},
		{Label: "TTL", After: "Other", Op: DeriveSum,
			Terms: []string{"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other"}},
		{Label: "Food Cost %", After: "TTL", Op: DerivePct, Num: "TTL", Den: "Net Sales"},
		{Label: "Prime Cost $", After: "Food Cost %", Op: DeriveSum, Terms: []string{"Lbr Pay", "TTL"}},
		{Label: "Prime Cost %", After: "Prime Cost $", Op: DerivePct, Num: "Prime Cost $", Den: "Net Sales"},
	}
}

func compareRow(t *testing.T, rows []CompareRow, label string) CompareRow {
	t.Helper()
	for _, r := range rows {
		if r.Metric == label {
			return r
		}
	}
	t.Fatalf("no row labeled %q", label)
	return CompareRow{}
}

func TestComparePeriodsFixedOrder(t *testing.T) {
	this := Totals{"Net Sales": 1000, "Orders": 100, "Lbr Hrs": 80, "Lbr Pay": 300,
		"Johns": 50, "Terra": 30, "Metro": 20, "Victory": 10, "Central Kitchen": 40, "Other": 5}
	last := Totals{"Net Sales": 900, "Orders": 90, "Lbr Hrs": 85, "Lbr Pay": 310,
		"Johns": 45, "Terra": 25, "Metro": 25, "Victory": 15, "Central Kitchen": 35, "Other": 10}
	budget := Totals{"Net Sales": 1100, "Orders": 110, "Lbr Hrs": 75, "Lbr Pay": 280,
		"Johns": 55, "Terra": 30, "Metro": 20, "Victory": 10, "Central Kitchen": 45, "Other": 5}

	rows := ComparePeriods(this, last, budget, foodMetrics(), foodDerived())

	wantOrder := []string{
		"Net Sales", "Orders", "Avg Ticket", "Lbr Hrs", "Lbr Pay", "Lbr %",
		"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other",
		"TTL", "Food Cost %", "Prime Cost $", "Prime Cost %",
	}
	if len(rows) != len(wantOrder) {
		t.Fatalf("rows = %d, want %d", len(rows), len(wantOrder))
	}
	for i, w := range wantOrder {
		if rows[i].Metric != w {
			t.Errorf("row %d = %q, want %q", i, rows[i].Metric, w)
		}
	}

	avg := compareRow(t, rows, "Avg Ticket")
	if avg.This != 10.0 || avg.Last != 10.0 {
		t.Errorf("Avg Ticket = %v / %v, want 10 / 10", avg.This, avg.Last)
	}
	lbr := compareRow(t, rows, "Lbr %")
	if lbr.This != 30.0 {
		t.Errorf("Lbr %% = %v, want 30", lbr.This)
	}
	ttl := compareRow(t, rows, "TTL")
	if ttl.This != 155.0 {
		t.Errorf("TTL = %v, want 155", ttl.This)
	}
	prime := compareRow(t, rows, "Prime Cost $")
	if prime.This != 455.0 {
		t.Errorf("Prime Cost $ = %v, want 455", prime.This)
	}
}

// Derived rows must be computed from values already in the table, so the
// reported percentages stay consistent with the reported absolute values.
func TestComparePeriodsInternalConsistency(t *testing.T) {
	this := Totals{"Net Sales": 1000, "Johns": 33.335, "Terra": 33.335}
	rows := ComparePeriods(this, Totals{}, Totals{}, foodMetrics(), foodDerived())

	ttl := compareRow(t, rows, "TTL")
	// 33.335 rounds to 33.34 per base row; TTL sums the rounded rows.
	if ttl.This != 66.68 {
		t.Errorf("TTL = %v, want 66.68 (sum of rounded base rows)", ttl.This)
	}
	fc := compareRow(t, rows, "Food Cost %")
	if fc.This != SafePct(ttl.This, 1000) {
		t.Errorf("Food Cost %% = %v, inconsistent with TTL row %v", fc.This, ttl.This)
	}
}

func TestComparePeriodsAvgTicketZeroOrders(t *testing.T) {
	this := Totals{"Net Sales": 1000, "Orders": 0}
	last := Totals{"Net Sales": 900, "Orders": 90}

	rows := ComparePeriods(this, last, Totals{}, foodMetrics(), foodDerived())
	avg := compareRow(t, rows, "Avg Ticket")
	if avg.This != 0.0 {
		t.Errorf("Avg Ticket this = %v, want 0 (zero orders)", avg.This)
	}
	if avg.Last != 10.0 {
		t.Errorf("Avg Ticket last = %v, want 10", avg.Last)
	}
	if avg.ThisVsLast != -100.0 {
		t.Errorf("Avg Ticket delta = %v, want -100.0", avg.ThisVsLast)
	}
}

// Removing an optional source column must not drop rows or raise: the
// missing metric reports 0 across all four value fields.
func TestComparePeriodsSchemaTolerance(t *testing.T) {
	this := Totals{"Net Sales": 1000, "Orders": 100}
	rows := ComparePeriods(this, Totals{}, Totals{}, foodMetrics(), foodDerived())

	if len(rows) != 16 {
		t.Fatalf("rows = %d, want the full fixed row set", len(rows))
	}
	johns := compareRow(t, rows, "Johns")
	if johns.This != 0 || johns.Last != 0 || johns.ThisVsLast != 0 || johns.Budget != 0 {
		t.Errorf("missing column row not all-zero: %+v", johns)
	}
}

func TestSumTotals(t *testing.T) {
	in := Table{
		Columns: []string{"Net Sales", "Orders"},
		Rows: []Row{
			{"Net Sales": 10.10, "Orders": 2.0},
			{"Net Sales": 20.20, "Orders": 3.0},
		},
	}
	totals := SumTotals(in, []string{"Net Sales", "Orders", "Missing"})
	if totals["Net Sales"] != 30.3 {
		t.Errorf("Net Sales = %v, want 30.3", totals["Net Sales"])
	}
	if totals["Orders"] != 5.0 {
		t.Errorf("Orders = %v, want 5", totals["Orders"])
	}
	if totals["Missing"] != 0.0 {
		t.Errorf("Missing = %v, want 0", totals["Missing"])
	}
}
