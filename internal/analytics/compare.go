package analytics

import "github.com/shopspring/decimal"

// Totals maps metric column names to already-summed period values. Lookups
// of absent columns read as 0, which is what gives the comparison table its
// schema tolerance.
type Totals map[string]float64

// MetricSpec names one base comparison row and the source column feeding
// each period. Dashboards supply these as ordered spec tables.
type MetricSpec struct {
	Label     string
	ThisCol   string
	LastCol   string
	BudgetCol string
}

type CompareRow struct {
	Metric       string  `json:"Metric"`
	This         float64 `json:"Tw"`
	Last         float64 `json:"Lw"`
	ThisVsLast   float64 `json:"Tw vs. Lw"`
	Budget       float64 `json:"Bdg"`
	ThisVsBudget float64 `json:"Tw vs. Bdg"`
}

type DeriveOp int

const (
	DeriveRatio DeriveOp = iota
	DerivePct
	DeriveSum
)

// Derived configures a composite comparison row. Num, Den and Terms refer
// to labels of rows already built in the same table, so reported ratios
// stay consistent with the reported absolute values.
type Derived struct {
	Label string
	After string // insert after this label; "" appends
	Op    DeriveOp
	Num   string
	Den   string
	Terms []string
}

// ComparePeriods builds the fixed-order comparison table for one metric
// set. Base rows come straight from the period totals; derived rows are
// computed from rows already in the table and inserted at their fixed
// positions. Every division follows the zero-guard policy.
func ComparePeriods(this, last, budget Totals, base []MetricSpec, derived []Derived) []CompareRow {
	rows := make([]CompareRow, 0, len(base)+len(derived))
	for _, s := range base {
		rows = append(rows, newCompareRow(s.Label,
			Round2(this[s.ThisCol]),
			Round2(last[s.LastCol]),
			Round2(budget[s.BudgetCol])))
	}
	for _, d := range derived {
		tw, lw, bd := deriveValues(rows, d)
		rows = insertAfter(rows, d.After, newCompareRow(d.Label, tw, lw, bd))
	}
	return rows
}

// CompareRecords serializes comparison rows for the response boundary.
func CompareRecords(rows []CompareRow) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any{
			"Metric":     r.Metric,
			"Tw":         r.This,
			"Lw":         r.Last,
			"Tw vs. Lw":  r.ThisVsLast,
			"Bdg":        r.Budget,
			"Tw vs. Bdg": r.ThisVsBudget,
		})
	}
	return out
}

// SumTotals sums the named columns of t into a Totals map at 2dp.
func SumTotals(t Table, columns []string) Totals {
	out := make(Totals, len(columns))
	for _, c := range columns {
		sum := decimal.Zero
		for _, r := range t.Rows {
			sum = sum.Add(decimal.NewFromFloat(Float(r[c])))
		}
		f, _ := sum.Round(2).Float64()
		out[c] = f
	}
	return out
}

func newCompareRow(label string, tw, lw, bd float64) CompareRow {
	return CompareRow{
		Metric:       label,
		This:         tw,
		Last:         lw,
		ThisVsLast:   PctChange(tw, lw),
		Budget:       bd,
		ThisVsBudget: PctChange(tw, bd),
	}
}

func deriveValues(rows []CompareRow, d Derived) (tw, lw, bd float64) {
	get := func(label string) (float64, float64, float64) {
		for _, r := range rows {
			if r.Metric == label {
				return r.This, r.Last, r.Budget
			}
		}
		return 0, 0, 0
	}
	switch d.Op {
	case DeriveSum:
		for _, term := range d.Terms {
			t, l, b := get(term)
			tw += t
			lw += l
			bd += b
		}
		return Round2(tw), Round2(lw), Round2(bd)
	case DerivePct:
		nt, nl, nb := get(d.Num)
		dt, dl, db := get(d.Den)
		return SafePct(nt, dt), SafePct(nl, dl), SafePct(nb, db)
	default:
		nt, nl, nb := get(d.Num)
		dt, dl, db := get(d.Den)
		return SafeDiv(nt, dt), SafeDiv(nl, dl), SafeDiv(nb, db)
	}
}

func insertAfter(rows []CompareRow, after string, row CompareRow) []CompareRow {
	if after == "" {
		return append(rows, row)
	}
	for i, r := range rows {
		if r.Metric == after {
			rows = append(rows, CompareRow{})
			copy(rows[i+2:], rows[i+1:])
			rows[i+1] = row
			return rows
		}
	}
	return append(rows, row)
}
