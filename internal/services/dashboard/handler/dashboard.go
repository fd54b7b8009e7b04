package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

// DashboardHandler assembles the pre-aggregated comparison tables the
// dashboard frontends render. All tables are recomputed from persisted
// rows on every call; there is no shared aggregation state.
type DashboardHandler struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDashboardHandler(db *gorm.DB, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{db: db, logger: logger}
}

// Params are the per-request filter values. Absent dimensions arrive as
// Any matches.
type Params struct {
	CompanyID int64
	Location  analytics.Match
	Category  analytics.Match
	Server    analytics.Match
	Year      analytics.Match
	Quarter   analytics.Match
	StartDate *time.Time
	EndDate   *time.Time
}

type Response map[string]any

// dateRange resolves the "this period" window: explicit dates win, then a
// year/quarter selection, then the trailing 7 days.
func (p Params) dateRange() (time.Time, time.Time) {
	if p.StartDate != nil || p.EndDate != nil {
		end := today()
		if p.EndDate != nil {
			end = *p.EndDate
		}
		start := end.AddDate(0, 0, -6)
		if p.StartDate != nil {
			start = *p.StartDate
		}
		return start, end
	}
	if y, ok := p.Year.Value(); ok {
		year, err := strconv.Atoi(y)
		if err == nil {
			if q, ok := p.Quarter.Value(); ok {
				if quarter, err := strconv.Atoi(q); err == nil && quarter >= 1 && quarter <= 4 {
					start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
					return start, start.AddDate(0, 3, -1)
				}
			}
			return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		}
	}
	end := today()
	return end.AddDate(0, 0, -6), end
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func shiftRange(start, end time.Time, days int) (time.Time, time.Time) {
	return start.AddDate(0, 0, days), end.AddDate(0, 0, days)
}

func (h *DashboardHandler) loadSales(ctx context.Context, companyID int64, start, end time.Time) (analytics.Table, error) {
	var recs []models.SalesRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Order("date").
		Find(&recs).Error
	if err != nil {
		return analytics.Table{}, err
	}

	t := analytics.NewTable(
		"Store", "Date", "Time", "Day", "Week", "Month", "Quarter", "Year",
		"Dining Option", "Category", "Menu Item", "Server",
		"Qty", "Sales", "Gross Sales", "Orders",
	)
	for _, rec := range recs {
		row := analytics.Row{
			"Store":         rec.Store,
			"Time":          rec.Time,
			"Day":           rec.Day,
			"Week":          rec.Week,
			"Month":         rec.Month,
			"Quarter":       rec.Quarter,
			"Year":          rec.Year,
			"Dining Option": rec.DiningOption,
			"Category":      rec.Category,
			"Menu Item":     rec.MenuItem,
			"Server":        rec.Server,
			"Qty":           rec.Qty,
			"Sales":         rec.NetPrice,
			"Gross Sales":   rec.GrossPrice,
			"Orders":        1.0,
		}
		if rec.Date != nil {
			row["Date"] = *rec.Date
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (h *DashboardHandler) loadFinancials(ctx context.Context, companyID int64, start, end time.Time) (analytics.Table, error) {
	var recs []models.FinancialRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Order("date").
		Find(&recs).Error
	if err != nil {
		return analytics.Table{}, err
	}

	t := analytics.NewTable(append([]string{"Store", "Date", "Week", "Month", "Quarter", "Year"}, FinancialColumns...)...)
	for _, rec := range recs {
		row := analytics.Row{
			"Store":           rec.Store,
			"Week":            rec.Week,
			"Month":           rec.Month,
			"Quarter":         rec.Quarter,
			"Year":            rec.Year,
			"Net Sales":       rec.NetSales,
			"Orders":          rec.Orders,
			"Lbr Hrs":         rec.LbrHrs,
			"Lbr Pay":         rec.LbrPay,
			"Johns":           rec.Johns,
			"Terra":           rec.Terra,
			"Metro":           rec.Metro,
			"Victory":         rec.Victory,
			"Central Kitchen": rec.CentralKitchen,
			"Other":           rec.Other,
		}
		if rec.Date != nil {
			row["Date"] = *rec.Date
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (h *DashboardHandler) loadBudget(ctx context.Context, companyID int64, start, end time.Time) (analytics.Table, error) {
	var recs []models.BudgetRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Order("date").
		Find(&recs).Error
	if err != nil {
		return analytics.Table{}, err
	}

	t := analytics.NewTable(append([]string{"Store", "Date", "Week", "Quarter", "Year"}, FinancialColumns...)...)
	for _, rec := range recs {
		row := analytics.Row{
			"Store":           rec.Store,
			"Week":            rec.Week,
			"Quarter":         rec.Quarter,
			"Year":            rec.Year,
			"Net Sales":       rec.NetSales,
			"Orders":          rec.Orders,
			"Lbr Hrs":         rec.LbrHrs,
			"Lbr Pay":         rec.LbrPay,
			"Johns":           rec.Johns,
			"Terra":           rec.Terra,
			"Metro":           rec.Metro,
			"Victory":         rec.Victory,
			"Central Kitchen": rec.CentralKitchen,
			"Other":           rec.Other,
		}
		if rec.Date != nil {
			row["Date"] = *rec.Date
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// stackPeriods relabels the same metric from several period tables into
// side-by-side columns (Tw/Lw/Ly), producing input ready for Aggregate.
func stackPeriods(dim, metric string, outCols []string, periods []analytics.Table) analytics.Table {
	out := analytics.Table{Columns: append([]string{dim}, outCols...)}
	for i, t := range periods {
		if i >= len(outCols) {
			break
		}
		for _, r := range t.Rows {
			row := analytics.Row{dim: analytics.Str(r[dim])}
			for _, c := range outCols {
				row[c] = 0.0
			}
			row[outCols[i]] = analytics.Float(r[metric])
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// ratioTable derives a per-group ratio table (e.g. avg ticket) from two
// already-aggregated tables sharing the same dimension rows.
func ratioTable(dim string, num, den analytics.Table, numCols, denCols, outCols [2]string, deltaCol string) analytics.Table {
	byDim := make(map[string]analytics.Row, len(den.Rows))
	for _, r := range den.Rows {
		byDim[analytics.Str(r[dim])] = r
	}
	out := analytics.Table{Columns: []string{dim, outCols[0], outCols[1], deltaCol}}
	for _, r := range num.Rows {
		k := analytics.Str(r[dim])
		d, ok := byDim[k]
		if !ok {
			d = analytics.Row{}
		}
		cur := analytics.SafeDiv(analytics.Float(r[numCols[0]]), analytics.Float(d[denCols[0]]))
		prev := analytics.SafeDiv(analytics.Float(r[numCols[1]]), analytics.Float(d[denCols[1]]))
		out.Rows = append(out.Rows, analytics.Row{
			dim:        k,
			outCols[0]: cur,
			outCols[1]: prev,
			deltaCol:   analytics.PctChange(cur, prev),
		})
	}
	return out
}

func (p Params) rowFilters() []analytics.Filter {
	return []analytics.Filter{
		{Column: "Store", Match: p.Location},
		{Column: "Category", Match: p.Category},
		{Column: "Server", Match: p.Server},
	}
}

func (h *DashboardHandler) envelope(ctx context.Context, companyID int64, dashboard string, model any, tables Response, data []map[string]any) (Response, error) {
	locations, years, dates, err := h.filterOptions(ctx, companyID, model)
	if err != nil {
		return nil, err
	}
	resp := Response{
		"dashboardName": dashboard,
		"fileName":      h.latestFileName(ctx, companyID, dashboard),
		"locations":     locations,
		"years":         years,
		"dates":         dates,
		"data":          data,
	}
	for k, v := range tables {
		resp[k] = v
	}
	return resp, nil
}

func (h *DashboardHandler) filterOptions(ctx context.Context, companyID int64, model any) ([]string, []int, []string, error) {
	base := func() *gorm.DB {
		return h.db.WithContext(ctx).Model(model).Where("company_id = ?", companyID)
	}

	var locations []string
	if err := base().Distinct("store").Order("store").Pluck("store", &locations).Error; err != nil {
		return nil, nil, nil, err
	}
	var years []int
	if err := base().Distinct("year").Order("year DESC").Pluck("year", &years).Error; err != nil {
		return nil, nil, nil, err
	}
	var rawDates []time.Time
	if err := base().Distinct("date").Order("date DESC").Limit(60).Pluck("date", &rawDates).Error; err != nil {
		return nil, nil, nil, err
	}
	dates := make([]string, 0, len(rawDates))
	for _, d := range rawDates {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return locations, years, dates, nil
}

func (h *DashboardHandler) latestFileName(ctx context.Context, companyID int64, dashboard string) string {
	var file models.UploadedFile
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND dashboard = ?", companyID, dashboard).
		Order("uploaded_at DESC").
		First(&file).Error
	if err != nil {
		return ""
	}
	return file.FileName
}

// FilterOptions backs the /filters endpoint the UI uses to populate its
// dropdowns.
func (h *DashboardHandler) FilterOptions(ctx context.Context, companyID int64) (Response, error) {
	locations, years, dates, err := h.filterOptions(ctx, companyID, &models.SalesRecord{})
	if err != nil {
		return nil, err
	}
	var servers []string
	if err := h.db.WithContext(ctx).Model(&models.SalesRecord{}).
		Where("company_id = ? AND server <> ''", companyID).
		Distinct("server").Order("server").Pluck("server", &servers).Error; err != nil {
		return nil, err
	}
	return Response{
		"locations":  locations,
		"years":      years,
		"dates":      dates,
		"servers":    servers,
		"categories": analytics.Categories,
		"dashboards": []string{"sales", "pmix", "financials", "companywide"},
	}, nil
}
