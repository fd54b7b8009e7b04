package handler

import (
	"context"
	"time"

	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

func (h *DashboardHandler) financialPeriod(ctx context.Context, p Params, start, end time.Time) (analytics.Table, error) {
	t, err := h.loadFinancials(ctx, p.CompanyID, start, end)
	if err != nil {
		return analytics.Table{}, err
	}
	return analytics.ApplyFilters(t, analytics.Filter{Column: "Store", Match: p.Location}), nil
}

// Financials builds the financials dashboard: the fixed-order comparison
// table against last week and budget, a weekly trend for the containing
// year, and per-store actual vs budget sales.
func (h *DashboardHandler) Financials(ctx context.Context, p Params) (Response, error) {
	start, end := p.dateRange()
	lwStart, lwEnd := shiftRange(start, end, -7)

	tw, err := h.financialPeriod(ctx, p, start, end)
	if err != nil {
		return nil, err
	}
	lw, err := h.financialPeriod(ctx, p, lwStart, lwEnd)
	if err != nil {
		return nil, err
	}
	bdg, err := h.loadBudget(ctx, p.CompanyID, start, end)
	if err != nil {
		return nil, err
	}
	bdg = analytics.ApplyFilters(bdg, analytics.Filter{Column: "Store", Match: p.Location})

	compare := analytics.ComparePeriods(
		analytics.SumTotals(tw, FinancialColumns),
		analytics.SumTotals(lw, FinancialColumns),
		analytics.SumTotals(bdg, FinancialColumns),
		FinancialMetrics, FinancialDerived)

	yearStart := time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(start.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	year, err := h.financialPeriod(ctx, p, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	weekly := analytics.Aggregate(year, analytics.AggSpec{
		GroupBy: "Week",
		Metrics: []analytics.Metric{
			{Column: "Net Sales", Fn: analytics.AggSum},
			{Column: "Orders", Fn: analytics.AggSum, Integer: true},
			{Column: "Lbr Pay", Fn: analytics.AggSum},
		},
		Order: weekOrder,
	})
	weekly = withRatio(weekly, "Lbr %", "Lbr Pay", "Net Sales", true)

	budgetCols := []string{"Tw Sales", "Bdg Sales"}
	vsBudget := analytics.Aggregate(
		stackPeriods("Store", "Net Sales", budgetCols, []analytics.Table{tw, bdg}),
		analytics.AggSpec{
			GroupBy: "Store",
			Metrics: sumMetrics(budgetCols, false),
			Deltas:  []analytics.Delta{{Column: "Tw vs. Bdg", Cur: "Tw Sales", Prev: "Bdg Sales"}},
		})

	tables := Response{
		"table1": analytics.CompareRecords(compare),
		"table2": weekly.Records(),
		"table3": vsBudget.Records(),
	}
	return h.envelope(ctx, p.CompanyID, "financials", &models.FinancialRecord{}, tables, tw.Records())
}

// FinancialsExport returns the filtered actuals rows for workbook export.
func (h *DashboardHandler) FinancialsExport(ctx context.Context, p Params) (analytics.Table, error) {
	start, end := p.dateRange()
	return h.financialPeriod(ctx, p, start, end)
}
