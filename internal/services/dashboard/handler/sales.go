package handler

import (
	"context"
	"time"

	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

func sumMetrics(cols []string, integer bool) []analytics.Metric {
	out := make([]analytics.Metric, 0, len(cols))
	for _, c := range cols {
		out = append(out, analytics.Metric{Column: c, Fn: analytics.AggSum, Integer: integer})
	}
	return out
}

// withRatio appends a per-row ratio column to an aggregated table.
func withRatio(t analytics.Table, col, num, den string, pct bool) analytics.Table {
	t.Columns = append(t.Columns, col)
	for _, r := range t.Rows {
		if pct {
			r[col] = analytics.SafePct(analytics.Float(r[num]), analytics.Float(r[den]))
		} else {
			r[col] = analytics.SafeDiv(analytics.Float(r[num]), analytics.Float(r[den]))
		}
	}
	return t
}

func (h *DashboardHandler) salesPeriod(ctx context.Context, p Params, start, end time.Time) (analytics.Table, error) {
	t, err := h.loadSales(ctx, p.CompanyID, start, end)
	if err != nil {
		return analytics.Table{}, err
	}
	return analytics.ApplyFilters(t, p.rowFilters()...), nil
}

// Sales builds the sales dashboard: this-week/last-week/last-year sales
// split by store, day, week and category, plus order counts and average
// ticket per store.
func (h *DashboardHandler) Sales(ctx context.Context, p Params) (Response, error) {
	start, end := p.dateRange()
	lwStart, lwEnd := shiftRange(start, end, -7)
	lyStart, lyEnd := shiftRange(start, end, -364)

	tw, err := h.salesPeriod(ctx, p, start, end)
	if err != nil {
		return nil, err
	}
	lw, err := h.salesPeriod(ctx, p, lwStart, lwEnd)
	if err != nil {
		return nil, err
	}
	ly, err := h.salesPeriod(ctx, p, lyStart, lyEnd)
	if err != nil {
		return nil, err
	}

	periods := []analytics.Table{tw, lw, ly}
	salesCols := []string{"Tw Sales", "Lw Sales", "Ly Sales"}
	salesDeltas := []analytics.Delta{
		{Column: "Tw vs. Lw", Cur: "Tw Sales", Prev: "Lw Sales"},
		{Column: "Tw vs. Ly", Cur: "Tw Sales", Prev: "Ly Sales"},
	}
	salesBy := func(dim string, order []string) analytics.Table {
		return analytics.Aggregate(stackPeriods(dim, "Sales", salesCols, periods), analytics.AggSpec{
			GroupBy: dim,
			Metrics: sumMetrics(salesCols, false),
			Deltas:  salesDeltas,
			Order:   order,
		})
	}

	byStore := salesBy("Store", nil)
	byDay := salesBy("Day", DayOrder)
	byWeek := salesBy("Week", weekOrder)
	byCategory := salesBy("Category", analytics.Categories)

	orderCols := []string{"Tw Orders", "Lw Orders"}
	orders := analytics.Aggregate(stackPeriods("Store", "Orders", orderCols, periods[:2]), analytics.AggSpec{
		GroupBy: "Store",
		Metrics: sumMetrics(orderCols, true),
		Deltas:  []analytics.Delta{{Column: "Tw vs. Lw", Cur: "Tw Orders", Prev: "Lw Orders"}},
	})

	avgTicket := ratioTable("Store", byStore, orders,
		[2]string{"Tw Sales", "Lw Sales"},
		[2]string{"Tw Orders", "Lw Orders"},
		[2]string{"Tw Avg Ticket", "Lw Avg Ticket"},
		"Tw vs. Lw")

	tables := Response{
		"table1": byStore.Records(),
		"table2": byDay.Records(),
		"table3": byWeek.Records(),
		"table4": byCategory.Records(),
		"table5": orders.Records(),
		"table6": avgTicket.Records(),
	}
	return h.envelope(ctx, p.CompanyID, "sales", &models.SalesRecord{}, tables, tw.Records())
}
