package workbook

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, name string, rows [][]interface{}) *Workbook {
	t.Helper()
	f := excelize.NewFile()
	if name != "Sheet1" {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("create sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	t.Cleanup(func() { f.Close() })
	return New(f)
}

func TestRowsSkipsHeaders(t *testing.T) {
	wb := buildSheet(t, "Sheet1", [][]interface{}{
		{"title"},
		{"code", "name"},
		{"500", "Test Dealer"},
		{"501", "Another"},
	})

	sheet, err := wb.Sheet("Sheet1")
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	it, err := sheet.Rows(2)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	defer it.Close()

	var codes []string
	for it.Next() {
		codes = append(codes, it.Row().Code(0))
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(codes) != 2 || codes[0] != "500" || codes[1] != "501" {
		t.Errorf("unexpected codes: %v", codes)
	}
}

func TestShortRowsDegradeToDefaults(t *testing.T) {
	wb := buildSheet(t, "Sheet1", [][]interface{}{
		{"500"},
	})

	sheet, _ := wb.Sheet("Sheet1")
	it, err := sheet.Rows(0)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	defer it.Close()

	if !it.Next() {
		t.Fatal("expected one row")
	}
	row := it.Row()
	if got := row.Text(5); got != "" {
		t.Errorf("Text past end = %q, want empty", got)
	}
	if got := row.Number(9); got != 0 {
		t.Errorf("Number past end = %v, want 0", got)
	}
}

func TestHasSheetExactMatch(t *testing.T) {
	wb := buildSheet(t, "KONYA GÜN", [][]interface{}{{"x"}})
	if !wb.HasSheet("KONYA GÜN") {
		t.Error("expected exact sheet name to match")
	}
	if wb.HasSheet("KONYA GUN") {
		t.Error("diacritic-insensitive match must not succeed")
	}
}
