package handler

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"xcelbot-system/internal/analytics"
)

func workbook(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	return f
}

func TestReadSheetSynthesizesHelpers(t *testing.T) {
	f := workbook(t, "Actuals", [][]any{
		{"Store", "Date", "Net Sales"},
		{"0001: Midtown", "2025-01-15", 1200.5},
	})
	defer f.Close()

	tbl, err := ReadSheet(f, "Actuals", []string{"Store", "Date", "Net Sales"}, []string{"Helper 1"})
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if !tbl.HasColumn("Helper 1") {
		t.Fatal("missing helper column was not synthesized")
	}
	if tbl.Rows[0]["Helper 1"] != "" {
		t.Errorf("helper cell = %v, want empty string", tbl.Rows[0]["Helper 1"])
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tbl.Rows))
	}
}

func TestReadSheetMissingColumn(t *testing.T) {
	f := workbook(t, "Actuals", [][]any{
		{"Store", "Date"},
		{"Midtown", "2025-01-15"},
	})
	defer f.Close()

	_, err := ReadSheet(f, "Actuals", []string{"Store", "Date", "Net Sales"}, nil)
	if err == nil {
		t.Fatal("expected missing column error")
	}
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != "Net Sales" {
		t.Errorf("error = %v, want MissingColumnError for Net Sales", err)
	}
}

func TestReadSheetMissingSheet(t *testing.T) {
	f := workbook(t, "Actuals", [][]any{{"Store"}})
	defer f.Close()

	_, err := ReadSheet(f, "Budget", nil, nil)
	var mse *MissingSheetError
	if !errors.As(err, &mse) {
		t.Fatalf("error = %v, want MissingSheetError", err)
	}
}

func TestReadSheetSkipsEmptyRows(t *testing.T) {
	f := workbook(t, "Sales", [][]any{
		{"Store", "Date"},
		{"Midtown", "2025-01-15"},
		{"", ""},
		{"Downtown", "2025-01-16"},
	})
	defer f.Close()

	tbl, err := ReadSheet(f, "Sales", []string{"Store", "Date"}, nil)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("rows = %d, want 2 (empty row skipped)", len(tbl.Rows))
	}
}

func TestBuildWorkbookRoundTrip(t *testing.T) {
	in := analytics.Table{
		Columns: []string{"Store", "Net Sales"},
		Rows: []analytics.Row{
			{"Store": "Midtown", "Net Sales": 1200.5},
		},
	}
	f, err := BuildWorkbook("Actuals", in)
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	defer f.Close()

	out, err := ReadSheet(f, "Actuals", []string{"Store", "Net Sales"}, nil)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0]["Store"] != "Midtown" {
		t.Errorf("round trip rows = %v", out.Rows)
	}
}
