package handler

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"xcelbot-system/internal/analytics"
)

type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("missing required sheet %q", e.Sheet)
}

type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}

// Per-dashboard sheet schemas. Helper columns are synthesized when the
// uploaded file lacks them; only the required set hard-fails.
var (
	salesRequired = []string{"Store", "Date", "Dining Option", "Menu Item", "Qty", "Net Price"}
	salesHelpers  = []string{"Time", "Server", "Gross Price"}
	salesExcluded = []string{"Store", "Date", "Time", "Dining Option", "Menu Item", "Server"}

	financialRequired = []string{"Store", "Date", "Net Sales", "Orders", "Lbr Hrs", "Lbr Pay"}
	financialHelpers  = []string{
		"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other",
		"Helper 1", "Helper 2", "Helper 3", "Helper 4",
	}
	financialExcluded = []string{"Store", "Date", "Helper 1", "Helper 2", "Helper 3", "Helper 4"}

	budgetHelpers = []string{"Johns", "Terra", "Metro", "Victory", "Central Kitchen", "Other"}
)

// ReadSheet converts one worksheet into a Table. The first row is the
// header (whitespace-trimmed); short rows are padded with empty cells and
// fully empty rows are dropped.
func ReadSheet(f *excelize.File, sheet string, required, helpers []string) (analytics.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) == 0 {
		return analytics.Table{}, &MissingSheetError{Sheet: sheet}
	}

	colIdx := make(map[string]int)
	columns := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		colIdx[name] = i
		columns = append(columns, name)
	}

	for _, c := range required {
		if _, ok := colIdx[c]; !ok {
			return analytics.Table{}, &MissingColumnError{Sheet: sheet, Column: c}
		}
	}

	synthesized := make([]string, 0)
	for _, c := range helpers {
		if _, ok := colIdx[c]; !ok {
			columns = append(columns, c)
			synthesized = append(synthesized, c)
		}
	}

	t := analytics.Table{Columns: columns}
	for _, raw := range rows[1:] {
		row := make(analytics.Row, len(columns))
		empty := true
		for name, i := range colIdx {
			cell := ""
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			if cell != "" {
				empty = false
			}
			row[name] = cell
		}
		if empty {
			continue
		}
		for _, c := range synthesized {
			row[c] = ""
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// BuildWorkbook writes a table into a single-sheet workbook, used by the
// financials export endpoint.
func BuildWorkbook(sheet string, t analytics.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, c); err != nil {
			return nil, err
		}
	}
	for rowNo, r := range t.Rows {
		for i, c := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNo+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, analytics.Str(r[c])); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
