package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

type AggFunc int

const (
	AggSum AggFunc = iota
	AggMean
)

// Metric configures one aggregated output column. Integer metrics
// (orders, quantities) round to whole numbers, everything else to 2dp.
type Metric struct {
	Column  string
	Fn      AggFunc
	Integer bool
}

// Delta configures a percentage-change column computed from two metric
// columns already present on the aggregated row.
type Delta struct {
	Column string
	Cur    string
	Prev   string
}

type AggSpec struct {
	GroupBy string
	Metrics []Metric
	Deltas  []Delta
	// Order pins the dimension ordering (e.g. Monday..Sunday). Values not
	// listed keep lexicographic order after the pinned ones.
	Order []string
}

const GrandTotalLabel = "Grand Total"

// Aggregate groups t by spec.GroupBy, applies the metric functions and
// delta columns, and appends a Grand Total row whose metrics are the
// column-wise sums of the group rows (deltas recomputed from those sums).
// An empty input yields a Grand-Total-only table with all metrics at 0.
func Aggregate(t Table, spec AggSpec) Table {
	type acc struct {
		sums  []decimal.Decimal
		count int64
	}
	accs := make(map[string]*acc)
	keys := make([]string, 0)
	for _, r := range t.Rows {
		k := Str(r[spec.GroupBy])
		a, ok := accs[k]
		if !ok {
			a = &acc{sums: make([]decimal.Decimal, len(spec.Metrics))}
			accs[k] = a
			keys = append(keys, k)
		}
		for i, m := range spec.Metrics {
			a.sums[i] = a.sums[i].Add(decimal.NewFromFloat(Float(r[m.Column])))
		}
		a.count++
	}
	sortKeys(keys, spec.Order)

	cols := make([]string, 0, 1+len(spec.Metrics)+len(spec.Deltas))
	cols = append(cols, spec.GroupBy)
	for _, m := range spec.Metrics {
		cols = append(cols, m.Column)
	}
	for _, d := range spec.Deltas {
		cols = append(cols, d.Column)
	}
	out := Table{Columns: cols}

	grand := make([]decimal.Decimal, len(spec.Metrics))
	for _, k := range keys {
		a := accs[k]
		row := Row{spec.GroupBy: k}
		for i, m := range spec.Metrics {
			val := a.sums[i]
			if m.Fn == AggMean && a.count > 0 {
				val = val.Div(decimal.NewFromInt(a.count))
			}
			rounded := roundMetric(val, m.Integer)
			grand[i] = grand[i].Add(decimal.NewFromFloat(rounded))
			row[m.Column] = rounded
		}
		applyDeltas(row, spec.Deltas)
		out.Rows = append(out.Rows, row)
	}

	total := Row{spec.GroupBy: GrandTotalLabel}
	for i, m := range spec.Metrics {
		total[m.Column] = roundMetric(grand[i], m.Integer)
	}
	applyDeltas(total, spec.Deltas)
	out.Rows = append(out.Rows, total)
	return out
}

func applyDeltas(row Row, deltas []Delta) {
	for _, d := range deltas {
		row[d.Column] = PctChange(Float(row[d.Cur]), Float(row[d.Prev]))
	}
}

func sortKeys(keys []string, order []string) {
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

// PctChange is the zero-guarded percentage delta: (cur-prev)/prev*100
// rounded to 2dp, 0.0 when prev is 0. Never NaN, Inf or an error.
func PctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	c := decimal.NewFromFloat(cur)
	p := decimal.NewFromFloat(prev)
	f, _ := c.Sub(p).Div(p).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

// SafeDiv divides at 2dp with the zero-guard policy.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(num).Div(decimal.NewFromFloat(den)).Round(2).Float64()
	return f
}

// SafePct is SafeDiv scaled to a percentage.
func SafePct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(num).Div(decimal.NewFromFloat(den)).
		Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func roundMetric(d decimal.Decimal, integer bool) float64 {
	if integer {
		f, _ := d.Round(0).Float64()
		return f
	}
	f, _ := d.Round(2).Float64()
	return f
}
