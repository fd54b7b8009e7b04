package handler

import (
	"context"
	"time"

	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

// Companywide builds the cross-store dashboard. Location filters are
// ignored on purpose: every store is compared side by side.
func (h *DashboardHandler) Companywide(ctx context.Context, p Params) (Response, error) {
	start, end := p.dateRange()
	lwStart, lwEnd := shiftRange(start, end, -7)
	lyStart, lyEnd := shiftRange(start, end, -364)

	tw, err := h.loadFinancials(ctx, p.CompanyID, start, end)
	if err != nil {
		return nil, err
	}
	lw, err := h.loadFinancials(ctx, p.CompanyID, lwStart, lwEnd)
	if err != nil {
		return nil, err
	}
	ly, err := h.loadFinancials(ctx, p.CompanyID, lyStart, lyEnd)
	if err != nil {
		return nil, err
	}

	periods := []analytics.Table{tw, lw, ly}
	salesCols := []string{"Tw Sales", "Lw Sales", "Ly Sales"}
	byStore := analytics.Aggregate(stackPeriods("Store", "Net Sales", salesCols, periods), analytics.AggSpec{
		GroupBy: "Store",
		Metrics: sumMetrics(salesCols, false),
		Deltas: []analytics.Delta{
			{Column: "Tw vs. Lw", Cur: "Tw Sales", Prev: "Lw Sales"},
			{Column: "Tw vs. Ly", Cur: "Tw Sales", Prev: "Ly Sales"},
		},
	})

	orderCols := []string{"Tw Orders", "Lw Orders"}
	ordersByStore := analytics.Aggregate(stackPeriods("Store", "Orders", orderCols, periods[:2]), analytics.AggSpec{
		GroupBy: "Store",
		Metrics: sumMetrics(orderCols, true),
		Deltas:  []analytics.Delta{{Column: "Tw vs. Lw", Cur: "Tw Orders", Prev: "Lw Orders"}},
	})

	yearStart := time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(start.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	year, err := h.loadFinancials(ctx, p.CompanyID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	weekly := analytics.Aggregate(year, analytics.AggSpec{
		GroupBy: "Week",
		Metrics: []analytics.Metric{
			{Column: "Net Sales", Fn: analytics.AggSum},
			{Column: "Lbr Pay", Fn: analytics.AggSum},
		},
		Order: weekOrder,
	})
	weekly = withRatio(weekly, "Lbr %", "Lbr Pay", "Net Sales", true)

	tables := Response{
		"table1": byStore.Records(),
		"table2": ordersByStore.Records(),
		"table3": weekly.Records(),
	}
	return h.envelope(ctx, p.CompanyID, "companywide", &models.FinancialRecord{}, tables, tw.Records())
}
