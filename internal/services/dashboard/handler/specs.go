package handler

import (
	"strconv"

	"xcelbot-system/internal/analytics"
)

// FinancialColumns are the numeric columns shared by actuals and budget
// rows, in upload order.
var FinancialColumns = []string{
	"Net Sales", "Orders", "Lbr Hrs", "Lbr Pay",
	"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other",
}

// FinancialMetrics are the base rows of the financials comparison table,
// in render order. Each column name doubles as the row label.
var FinancialMetrics = []analytics.MetricSpec{
	{Label: "Net Sales", ThisCol: "Net Sales", LastCol: "Net Sales", BudgetCol: "Net Sales"},
	{Label: "Orders", ThisCol: "Orders", LastCol: "Orders", BudgetCol: "Orders"},
	{Label: "Lbr Hrs", ThisCol: "Lbr Hrs", LastCol: "Lbr Hrs", BudgetCol: "Lbr Hrs"},
	{Label: "Lbr Pay", ThisCol: "Lbr Pay", LastCol: "Lbr Pay", BudgetCol: "Lbr Pay"},
	{Label: "Johns", ThisCol: "Johns", LastCol: "Johns", BudgetCol: "Johns"},
	{Label: "Terra", ThisCol: "Terra", LastCol: "Terra", BudgetCol: "Terra"},
	{Label: "Metro", ThisCol: "Metro", LastCol: "Metro", BudgetCol: "Metro"},
	{Label: "Victory", ThisCol: "Victory", LastCol: "Victory", BudgetCol: "Victory"},
	{Label: "Central Kitchen", ThisCol: "Central Kitchen", LastCol: "Central Kitchen", BudgetCol: "Central Kitchen"},
	{Label: "Other", ThisCol: "Other", LastCol: "Other", BudgetCol: "Other"},
}

// FinancialDerived are the composite rows, each pinned to its slot so the
// table renders in a fixed order regardless of the data present.
var FinancialDerived = []analytics.Derived{
	{Label: "Avg Ticket", After: "Orders", Op: analytics.DeriveRatio, Num: "Net Sales", Den: "Orders"},
	{Label: "Lbr %", After: "Lbr Pay", Op: analytics.DerivePct, Num: "Lbr Pay", Den: "Net Sales"},
	{Label: "SPMH", After: "Lbr %", Op: analytics.DeriveRatio, Num: "Net Sales", Den: "Lbr Hrs"},
	{Label: "LPMH", After: "SPMH", Op: analytics.DeriveRatio, Num: "Lbr Pay", Den: "Lbr Hrs"},
	{Label: "TTL", After: "Other", Op: analytics.DeriveSum,
		Terms: []string{"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other"}},
	{Label: "Food Cost %", After: "TTL", Op: analytics.DerivePct, Num: "TTL", Den: "Net Sales"},
	{Label: "Prime Cost $", After: "Food Cost %", Op: analytics.DeriveSum, Terms: []string{"TTL", "Lbr Pay"}},
	{Label: "Prime Cost %", After: "Prime Cost $", Op: analytics.DerivePct, Num: "Prime Cost $", Den: "Net Sales"},
}

// DayOrder pins weekday rows to calendar order instead of lexicographic.
var DayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// weekOrder keeps ISO week rows numeric ("2" before "10").
var weekOrder = func() []string {
	weeks := make([]string, 53)
	for i := range weeks {
		weeks[i] = strconv.Itoa(i + 1)
	}
	return weeks
}()
