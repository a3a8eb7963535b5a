package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

// maxCSVSets is how many set-column triples a training CSV row can carry.
const maxCSVSets = 5

var csvDateFormats = []string{
	"2006/01/02",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

// exerciseHint maps filename keywords to catalogue entries for files that
// don't name their exercise.
var exerciseHints = map[string][3]string{
	"squat":    {"Squat", "Barbell", "legs"},
	"bench":    {"Bench Press", "Barbell", "chest"},
	"deadlift": {"Deadlift", "Barbell", "back"},
}

// CSVOptions names the exercise the file belongs to. Empty fields fall back
// to a filename guess, defaulting to barbell squat.
type CSVOptions struct {
	ExerciseName      string
	ExerciseVariation string
	ExerciseCategory  string
	Overwrite         bool
}

// CSVImporter reads per-exercise training CSVs with columns
// "Date, 1 Set [WT], 1 Set [Reps], 1 Set [1RM], 2 Set [WT], ...".
type CSVImporter struct {
	db  *storage.DB
	log *slog.Logger
}

// NewCSVImporter creates a CSV importer.
func NewCSVImporter(db *storage.DB, log *slog.Logger) *CSVImporter {
	return &CSVImporter{db: db, log: log}
}

// Import reads the CSV at path and inserts its workouts and sets. Dates
// already holding sets for the exercise are skipped unless Overwrite is set,
// in which case their sets are replaced.
func (imp *CSVImporter) Import(ctx context.Context, path string, opts CSVOptions) (Result, error) {
	return recordRun(ctx, imp.db, "csv", filepath.Base(path), func() (Result, error) {
		return imp.run(ctx, path, opts)
	})
}

func (imp *CSVImporter) run(ctx context.Context, path string, opts CSVOptions) (Result, error) {
	var res Result

	if opts.ExerciseName == "" {
		hint := guessExercise(path)
		opts.ExerciseName, opts.ExerciseVariation, opts.ExerciseCategory = hint[0], hint[1], hint[2]
	}
	exercise, err := imp.db.GetOrCreateExercise(ctx, opts.ExerciseName, opts.ExerciseVariation, opts.ExerciseCategory)
	if err != nil {
		return res, err
	}
	imp.log.Info("importing training csv", "file", path, "exercise", exercise.DisplayName())

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return res, fmt.Errorf("reading csv header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["Date"]; !ok {
		return res, fmt.Errorf("csv has no Date column")
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			imp.log.Warn("skipping malformed csv row", "line", line, "error", err)
			res.Failed++
			continue
		}

		date, sets, ok := parseCSVRow(record, cols)
		if !ok {
			res.Failed++
			continue
		}
		if len(sets) == 0 {
			res.Skipped++
			continue
		}

		replaced, err := imp.storeDay(ctx, exercise.ID, date, sets, opts.Overwrite)
		if err != nil {
			return res, err
		}
		if !replaced {
			res.Skipped++
			continue
		}
		res.Imported += len(sets)
	}
	return res, nil
}

// storeDay writes one date's sets, honoring the overwrite rule. Returns
// false when the date already had sets and overwrite was off.
func (imp *CSVImporter) storeDay(ctx context.Context, exerciseID int64, date string, sets [][2]float64, overwrite bool) (bool, error) {
	existing, err := imp.db.History(ctx, storage.HistoryFilter{ExerciseID: exerciseID, From: date, To: date})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		if !overwrite {
			return false, nil
		}
		for _, e := range existing {
			if err := imp.db.DeleteSet(ctx, e.SetID); err != nil {
				return false, err
			}
		}
	}
	if _, err := imp.db.AddSets(ctx, date, exerciseID, sets); err != nil {
		return false, err
	}
	return true, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	return cols
}

// parseCSVRow extracts the date and up to five (weight, reps) pairs from a
// row. Stored one-rep maxes in the file are ignored when invalid; the value
// is rederived at insert anyway.
func parseCSVRow(record []string, cols map[string]int) (string, [][2]float64, bool) {
	date, ok := parseCSVDate(field(record, cols, "Date"))
	if !ok {
		return "", nil, false
	}

	var sets [][2]float64
	for n := 1; n <= maxCSVSets; n++ {
		weight, wok := parseFloat(field(record, cols, fmt.Sprintf("%d Set [WT]", n)))
		reps, rok := parseFloat(field(record, cols, fmt.Sprintf("%d Set [Reps]", n)))
		if !wok || !rok || weight <= 0 || reps <= 0 {
			continue
		}
		if err := validate.SetData(weight, int(reps)); err != nil {
			continue
		}
		sets = append(sets, [2]float64{weight, reps})
	}
	return date, sets, true
}

func parseCSVDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range csvDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func guessExercise(path string) [3]string {
	name := strings.ToLower(filepath.Base(path))
	for key, hint := range exerciseHints {
		if strings.Contains(name, key) {
			return hint
		}
	}
	return exerciseHints["squat"]
}
