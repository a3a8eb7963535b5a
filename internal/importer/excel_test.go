package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a scale-export-shaped workbook: a title block above
// the header row, Japanese column labels, and a trailing junk row.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"体組成レポート"},
		{},
		{"日付", "体重(kg)", "体脂肪率(%)", "筋肉量(kg)"},
		{"2025/06/01", 80.5, 18.2, 36.4},
		{"2025/06/02", 80.1, "", 36.5},
		{"メモ", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "bodycomp.xlsx")
	if err := book.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

// TestExcelImport finds the header below the title block and upserts rows.
func TestExcelImport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	imp := NewExcelImporter(db, discardLogger())

	res, err := imp.Import(ctx, writeWorkbook(t))
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (junk row)", res.Skipped)
	}

	day1, err := db.GetBodyStats(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("getting day one: %v", err)
	}
	if day1.Weight == nil || *day1.Weight != 80.5 {
		t.Errorf("weight = %v, want 80.5", day1.Weight)
	}
	if day1.MuscleMass == nil || *day1.MuscleMass != 36.4 {
		t.Errorf("muscle mass = %v, want 36.4", day1.MuscleMass)
	}

	day2, err := db.GetBodyStats(ctx, "2025-06-02")
	if err != nil {
		t.Fatalf("getting day two: %v", err)
	}
	if day2.BodyFatPercentage != nil {
		t.Errorf("day two body fat should be nil, got %v", *day2.BodyFatPercentage)
	}
}

// TestMapColumns verifies loose keyword matching in both languages.
func TestMapColumns(t *testing.T) {
	cols, err := mapColumns([]string{"Date", "Weight (kg)", "Body Fat %", "Muscle Mass"})
	if err != nil {
		t.Fatalf("mapping english header: %v", err)
	}
	if cols.date != 0 || cols.weight != 1 || cols.fat != 2 || cols.muscle != 3 {
		t.Errorf("english mapping = %+v", cols)
	}

	cols, err = mapColumns([]string{"測定日", "体脂肪率", "体重(kg)"})
	if err != nil {
		t.Fatalf("mapping japanese header: %v", err)
	}
	if cols.date != 0 || cols.fat != 1 || cols.weight != 2 {
		t.Errorf("japanese mapping = %+v", cols)
	}

	if _, err := mapColumns([]string{"体重(kg)", "体脂肪率"}); err == nil {
		t.Error("header without date column should fail")
	}
}

// TestFindHeader verifies the bounded scan for the header row.
func TestFindHeader(t *testing.T) {
	rows := [][]string{
		{"title"},
		{},
		{"日付", "体重(kg)"},
		{"2025/06/01", "80.5"},
	}
	idx, cols, err := findHeader(rows)
	if err != nil {
		t.Fatalf("finding header: %v", err)
	}
	if idx != 2 || cols.date != 0 || cols.weight != 1 {
		t.Errorf("header = row %d, cols %+v", idx, cols)
	}

	var deep [][]string
	for i := 0; i < 12; i++ {
		deep = append(deep, []string{"x"})
	}
	deep = append(deep, []string{"日付", "体重"})
	if _, _, err := findHeader(deep); err == nil {
		t.Error("header beyond the search window should not be found")
	}
}
