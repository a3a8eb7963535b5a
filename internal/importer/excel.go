package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// headerSearchRows is how far down the sheet the header row may sit; scale
// exports often put a title block above it.
const headerSearchRows = 10

var excelDateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ExcelImporter reads body-composition sheets exported by smart scales. The
// header row is located by its date column and the remaining columns are
// matched loosely by keyword, in Japanese or English.
type ExcelImporter struct {
	db  *storage.DB
	log *slog.Logger
}

// NewExcelImporter creates an Excel body-stats importer.
func NewExcelImporter(db *storage.DB, log *slog.Logger) *ExcelImporter {
	return &ExcelImporter{db: db, log: log}
}

type excelColumns struct {
	date   int
	weight int
	fat    int
	muscle int
}

// Import reads the first sheet of the workbook at path and upserts one body
// stats snapshot per data row. Rows without a parseable date or a weight are
// skipped.
func (imp *ExcelImporter) Import(ctx context.Context, path string) (Result, error) {
	return recordRun(ctx, imp.db, "excel", filepath.Base(path), func() (Result, error) {
		return imp.run(ctx, path)
	})
}

func (imp *ExcelImporter) run(ctx context.Context, path string) (Result, error) {
	var res Result

	book, err := excelize.OpenFile(path)
	if err != nil {
		return res, fmt.Errorf("opening workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return res, fmt.Errorf("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return res, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	headerIdx, cols, err := findHeader(rows)
	if err != nil {
		return res, err
	}
	imp.log.Info("importing body stats workbook", "file", path, "sheet", sheets[0], "header_row", headerIdx+1)

	for _, row := range rows[headerIdx+1:] {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		date, ok := parseExcelDate(cell(row, cols.date))
		if !ok {
			res.Skipped++
			continue
		}
		weight, wok := parseFloat(cell(row, cols.weight))
		if !wok {
			res.Skipped++
			continue
		}
		stats := models.BodyStats{Date: date, Weight: &weight}
		if fat, ok := parseFloat(cell(row, cols.fat)); ok {
			stats.BodyFatPercentage = &fat
		}
		if muscle, ok := parseFloat(cell(row, cols.muscle)); ok {
			stats.MuscleMass = &muscle
		}

		if _, err := imp.db.UpsertBodyStats(ctx, stats); err != nil {
			imp.log.Warn("skipping body stats row", "date", date, "error", err)
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// findHeader scans the first rows for one containing a date label, then maps
// the columns by keyword.
func findHeader(rows [][]string) (int, excelColumns, error) {
	limit := headerSearchRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for _, c := range rows[i] {
			if isDateLabel(c) {
				cols, err := mapColumns(rows[i])
				return i, cols, err
			}
		}
	}
	return 0, excelColumns{}, fmt.Errorf("no header row with a date column in the first %d rows", headerSearchRows)
}

func isDateLabel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Contains(s, "日付") || strings.Contains(s, "測定日") || strings.Contains(s, "date")
}

func mapColumns(header []string) (excelColumns, error) {
	cols := excelColumns{date: -1, weight: -1, fat: -1, muscle: -1}
	for i, raw := range header {
		label := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.date < 0 && isDateLabel(raw):
			cols.date = i
		case cols.weight < 0 && (strings.Contains(label, "体重") || strings.Contains(label, "weight")):
			cols.weight = i
		case cols.fat < 0 && (strings.Contains(label, "脂肪") || strings.Contains(label, "fat")):
			cols.fat = i
		case cols.muscle < 0 && (strings.Contains(label, "筋肉") || strings.Contains(label, "muscle")):
			cols.muscle = i
		}
	}
	if cols.date < 0 {
		return cols, fmt.Errorf("header row has no date column")
	}
	if cols.weight < 0 {
		return cols, fmt.Errorf("header row has no weight column")
	}
	return cols, nil
}

func parseExcelDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range excelDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	// Excel serial dates survive GetRows as plain numbers.
	if serial, ok := parseFloat(s); ok && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
