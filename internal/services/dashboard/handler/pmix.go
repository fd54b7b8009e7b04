package handler

import (
	"context"

	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

// Pmix builds the product-mix dashboard: quantity and sales per menu item,
// category and server over the selected window.
func (h *DashboardHandler) Pmix(ctx context.Context, p Params) (Response, error) {
	start, end := p.dateRange()
	tw, err := h.salesPeriod(ctx, p, start, end)
	if err != nil {
		return nil, err
	}

	metrics := []analytics.Metric{
		{Column: "Qty", Fn: analytics.AggSum, Integer: true},
		{Column: "Sales", Fn: analytics.AggSum},
	}

	byItem := analytics.Aggregate(tw, analytics.AggSpec{GroupBy: "Menu Item", Metrics: metrics})
	byItem = withRatio(byItem, "Avg Price", "Sales", "Qty", false)

	byCategory := analytics.Aggregate(tw, analytics.AggSpec{
		GroupBy: "Category",
		Metrics: metrics,
		Order:   analytics.Categories,
	})
	byServer := analytics.Aggregate(tw, analytics.AggSpec{GroupBy: "Server", Metrics: metrics})

	tables := Response{
		"table1": byItem.Records(),
		"table2": byCategory.Records(),
		"table3": byServer.Records(),
	}
	return h.envelope(ctx, p.CompanyID, "pmix", &models.SalesRecord{}, tables, tw.Records())
}
