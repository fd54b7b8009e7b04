package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"xcelbot-system/config"
	"xcelbot-system/internal/analytics"
	"xcelbot-system/internal/database/models"
)

const (
	DashboardSales       = "sales"
	DashboardPMix        = "pmix"
	DashboardFinancials  = "financials"
	DashboardCompanywide = "companywide"
)

var (
	ErrUnknownDashboard  = errors.New("unknown dashboard type")
	ErrDedupeUnavailable = errors.New("duplicate check unavailable")
	salesKeyColumns      = []string{"Store", "Date", "Time", "Menu Item", "Server", "Qty", "Net Price"}
	financialKeyColumns  = []string{"Store", "Date", "Week", "Year"}
	budgetKeyColumns     = []string{"Store", "Date", "Week", "Year", "Quarter"}
)

type IngestHandler struct {
	db        *gorm.DB
	logger    *logrus.Logger
	batchSize int
	failOpen  bool
}

func NewIngestHandler(db *gorm.DB, logger *logrus.Logger, cfg config.IngestConfig) *IngestHandler {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 1000
	}
	return &IngestHandler{db: db, logger: logger, batchSize: batch, failOpen: cfg.DedupeFailOpen}
}

type UploadSummary struct {
	FileID     string `json:"fileId"`
	FileName   string `json:"fileName"`
	Dashboard  string `json:"dashboard"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// Upload runs the full ingestion pipeline for one workbook: parse,
// normalize, duplicate-filter, insert. The insert is all-or-nothing; a
// chunk failure rolls back the whole upload.
func (h *IngestHandler) Upload(ctx context.Context, companyID int64, dashboard, fileName string, r io.Reader) (*UploadSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch dashboard {
	case DashboardSales, DashboardPMix:
		return h.uploadSales(ctx, companyID, dashboard, fileName, f)
	case DashboardFinancials, DashboardCompanywide:
		return h.uploadFinancials(ctx, companyID, dashboard, fileName, f)
	default:
		return nil, ErrUnknownDashboard
	}
}

func (h *IngestHandler) uploadSales(ctx context.Context, companyID int64, dashboard, fileName string, f *excelize.File) (*UploadSummary, error) {
	t, err := ReadSheet(f, f.GetSheetName(0), salesRequired, salesHelpers)
	if err != nil {
		return nil, err
	}
	if t, err = analytics.Normalize(t, salesExcluded); err != nil {
		return nil, err
	}
	if t, err = analytics.WithDateParts(t, analytics.ColDate); err != nil {
		return nil, err
	}

	start, end := dateSpan(t)
	existing, err := h.existingSalesKeys(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	kept, newCount, dupCount := FilterNewRows(t, existing, salesKeyColumns)

	records := make([]models.SalesRecord, 0, len(kept.Rows))
	for _, r := range kept.Rows {
		records = append(records, salesRecordFromRow(companyID, r))
	}

	summary, err := h.persist(ctx, companyID, dashboard, fileName, func(tx *gorm.DB) error {
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, h.batchSize).Error
	})
	if err != nil {
		return nil, err
	}
	summary.Inserted = newCount
	summary.Duplicates = dupCount
	h.logUpload(companyID, dashboard, newCount, dupCount)
	return summary, nil
}

func (h *IngestHandler) uploadFinancials(ctx context.Context, companyID int64, dashboard, fileName string, f *excelize.File) (*UploadSummary, error) {
	actuals, err := ReadSheet(f, "Actuals", financialRequired, financialHelpers)
	if err != nil {
		return nil, err
	}
	if actuals, err = analytics.Normalize(actuals, financialExcluded); err != nil {
		return nil, err
	}
	if actuals, err = analytics.WithDateParts(actuals, analytics.ColDate); err != nil {
		return nil, err
	}

	start, end := dateSpan(actuals)
	existing, err := h.existingFinancialKeys(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	keptActuals, newCount, dupCount := FilterNewRows(actuals, existing, financialKeyColumns)

	actualRecords := make([]models.FinancialRecord, 0, len(keptActuals.Rows))
	for _, r := range keptActuals.Rows {
		actualRecords = append(actualRecords, financialRecordFromRow(companyID, r))
	}

	var budgetRecords []models.BudgetRecord
	if idx, _ := f.GetSheetIndex("Budget"); idx >= 0 {
		budget, err := ReadSheet(f, "Budget", financialRequired, budgetHelpers)
		if err != nil {
			return nil, err
		}
		if budget, err = analytics.Normalize(budget, []string{analytics.ColStore, analytics.ColDate}); err != nil {
			return nil, err
		}
		if budget, err = analytics.WithDateParts(budget, analytics.ColDate); err != nil {
			return nil, err
		}
		bStart, bEnd := dateSpan(budget)
		existingBudget, err := h.existingBudgetKeys(ctx, companyID, bStart, bEnd)
		if err != nil {
			return nil, err
		}
		keptBudget, bNew, bDup := FilterNewRows(budget, existingBudget, budgetKeyColumns)
		for _, r := range keptBudget.Rows {
			budgetRecords = append(budgetRecords, budgetRecordFromRow(companyID, r))
		}
		newCount += bNew
		dupCount += bDup
	}

	summary, err := h.persist(ctx, companyID, dashboard, fileName, func(tx *gorm.DB) error {
		if len(actualRecords) > 0 {
			if err := tx.CreateInBatches(actualRecords, h.batchSize).Error; err != nil {
				return err
			}
		}
		if len(budgetRecords) > 0 {
			if err := tx.CreateInBatches(budgetRecords, h.batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary.Inserted = newCount
	summary.Duplicates = dupCount
	h.logUpload(companyID, dashboard, newCount, dupCount)
	return summary, nil
}

// persist runs the insert plus the UploadedFile record in one transaction.
func (h *IngestHandler) persist(ctx context.Context, companyID int64, dashboard, fileName string, insert func(tx *gorm.DB) error) (*UploadSummary, error) {
	file := models.UploadedFile{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		FileName:  fileName,
		Dashboard: dashboard,
	}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(tx); err != nil {
			return err
		}
		return tx.Create(&file).Error
	})
	if err != nil {
		config.LogError(h.logger, "ingest", "persist", "upload insert rolled back", logrus.Fields{
			"company_id": companyID,
			"dashboard":  dashboard,
			"file_name":  fileName,
		}, err)
		return nil, err
	}
	return &UploadSummary{FileID: file.ID, FileName: fileName, Dashboard: dashboard}, nil
}

// Existing-key loads are scoped to the tenant and the incoming batch's date
// span. A failed load falls back to treating every incoming row as new
// unless fail-open is disabled.
func (h *IngestHandler) existingSalesKeys(ctx context.Context, companyID int64, start, end time.Time) (map[string]struct{}, error) {
	var recs []models.SalesRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Find(&recs).Error
	if err != nil {
		return h.dedupeFallback(companyID, err)
	}
	keys := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		keys[CompositeKey(salesRowFromRecord(rec), salesKeyColumns)] = struct{}{}
	}
	return keys, nil
}

func (h *IngestHandler) existingFinancialKeys(ctx context.Context, companyID int64, start, end time.Time) (map[string]struct{}, error) {
	var recs []models.FinancialRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Find(&recs).Error
	if err != nil {
		return h.dedupeFallback(companyID, err)
	}
	keys := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		keys[CompositeKey(financialRowFromRecord(rec), financialKeyColumns)] = struct{}{}
	}
	return keys, nil
}

func (h *IngestHandler) existingBudgetKeys(ctx context.Context, companyID int64, start, end time.Time) (map[string]struct{}, error) {
	var recs []models.BudgetRecord
	err := h.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?", companyID, start, end).
		Find(&recs).Error
	if err != nil {
		return h.dedupeFallback(companyID, err)
	}
	keys := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		keys[CompositeKey(budgetRowFromRecord(rec), budgetKeyColumns)] = struct{}{}
	}
	return keys, nil
}

func (h *IngestHandler) dedupeFallback(companyID int64, err error) (map[string]struct{}, error) {
	if !h.failOpen {
		return nil, ErrDedupeUnavailable
	}
	h.logger.WithFields(logrus.Fields{
		"module":     "ingest",
		"company_id": companyID,
		"error":      err.Error(),
	}).Warn("duplicate check failed, inserting all incoming rows unfiltered")
	return map[string]struct{}{}, nil
}

func (h *IngestHandler) logUpload(companyID int64, dashboard string, newCount, dupCount int) {
	h.logger.WithFields(logrus.Fields{
		"module":     "ingest",
		"company_id": companyID,
		"dashboard":  dashboard,
		"inserted":   newCount,
		"duplicates": dupCount,
	}).Info("upload processed")
}

func dateSpan(t analytics.Table) (time.Time, time.Time) {
	var start, end time.Time
	for _, r := range t.Rows {
		d, err := analytics.ParseDate(r[analytics.ColDate])
		if err != nil {
			continue
		}
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	return start, end
}

func rowDate(r analytics.Row) *time.Time {
	d, err := analytics.ParseDate(r[analytics.ColDate])
	if err != nil {
		return nil
	}
	return &d
}

func rowInt(r analytics.Row, col string) int {
	return int(analytics.Float(r[col]))
}

func salesRecordFromRow(companyID int64, r analytics.Row) models.SalesRecord {
	dining := analytics.Str(r["Dining Option"])
	return models.SalesRecord{
		CompanyID:    companyID,
		Store:        analytics.Str(r[analytics.ColStore]),
		Date:         rowDate(r),
		Time:         analytics.Str(r["Time"]),
		Day:          analytics.Str(r["Day"]),
		Week:         rowInt(r, "Week"),
		Month:        rowInt(r, "Month"),
		Quarter:      rowInt(r, "Quarter"),
		Year:         rowInt(r, "Year"),
		DiningOption: dining,
		Category:     analytics.Categorize(dining),
		MenuItem:     analytics.Str(r["Menu Item"]),
		Server:       analytics.Str(r["Server"]),
		Qty:          analytics.Float(r["Qty"]),
		NetPrice:     analytics.Float(r["Net Price"]),
		GrossPrice:   analytics.Float(r["Gross Price"]),
	}
}

func salesRowFromRecord(rec models.SalesRecord) analytics.Row {
	row := analytics.Row{
		"Store":     rec.Store,
		"Time":      rec.Time,
		"Menu Item": rec.MenuItem,
		"Server":    rec.Server,
		"Qty":       rec.Qty,
		"Net Price": rec.NetPrice,
	}
	if rec.Date != nil {
		row["Date"] = *rec.Date
	}
	return row
}

func financialRecordFromRow(companyID int64, r analytics.Row) models.FinancialRecord {
	return models.FinancialRecord{
		CompanyID:      companyID,
		Store:          analytics.Str(r[analytics.ColStore]),
		Date:           rowDate(r),
		Week:           rowInt(r, "Week"),
		Month:          rowInt(r, "Month"),
		Quarter:        rowInt(r, "Quarter"),
		Year:           rowInt(r, "Year"),
		NetSales:       analytics.Float(r["Net Sales"]),
		Orders:         analytics.Float(r["Orders"]),
		LbrHrs:         analytics.Float(r["Lbr Hrs"]),
		LbrPay:         analytics.Float(r["Lbr Pay"]),
		Johns:          analytics.Float(r["Johns"]),
		Terra:          analytics.Float(r["Terra"]),
		Metro:          analytics.Float(r["Metro"]),
		Victory:        analytics.Float(r["Victory"]),
		CentralKitchen: analytics.Float(r["Central Kitchen"]),
		Other:          analytics.Float(r["Other"]),
		Helper1:        analytics.Str(r["Helper 1"]),
		Helper2:        analytics.Str(r["Helper 2"]),
		Helper3:        analytics.Str(r["Helper 3"]),
		Helper4:        analytics.Str(r["Helper 4"]),
	}
}

func financialRowFromRecord(rec models.FinancialRecord) analytics.Row {
	row := analytics.Row{
		"Store": rec.Store,
		"Week":  rec.Week,
		"Year":  rec.Year,
	}
	if rec.Date != nil {
		row["Date"] = *rec.Date
	}
	return row
}

func budgetRecordFromRow(companyID int64, r analytics.Row) models.BudgetRecord {
	return models.BudgetRecord{
		CompanyID:      companyID,
		Store:          analytics.Str(r[analytics.ColStore]),
		Date:           rowDate(r),
		Week:           rowInt(r, "Week"),
		Month:          rowInt(r, "Month"),
		Quarter:        rowInt(r, "Quarter"),
		Year:           rowInt(r, "Year"),
		NetSales:       analytics.Float(r["Net Sales"]),
		Orders:         analytics.Float(r["Orders"]),
		LbrHrs:         analytics.Float(r["Lbr Hrs"]),
		LbrPay:         analytics.Float(r["Lbr Pay"]),
		Johns:          analytics.Float(r["Johns"]),
		Terra:          analytics.Float(r["Terra"]),
		Metro:          analytics.Float(r["Metro"]),
		Victory:        analytics.Float(r["Victory"]),
		CentralKitchen: analytics.Float(r["Central Kitchen"]),
		Other:          analytics.Float(r["Other"]),
	}
}

func budgetRowFromRecord(rec models.BudgetRecord) analytics.Row {
	row := analytics.Row{
		"Store":   rec.Store,
		"Week":    rec.Week,
		"Year":    rec.Year,
		"Quarter": rec.Quarter,
	}
	if rec.Date != nil {
		row["Date"] = *rec.Date
	}
	return row
}
