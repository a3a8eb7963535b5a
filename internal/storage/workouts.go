package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// GetOrCreateWorkout returns the workout for date, creating it if needed.
// Dates are YYYY-MM-DD strings; at most one workout exists per date.
func (db *DB) GetOrCreateWorkout(ctx context.Context, date string) (models.Workout, error) {
	var w models.Workout
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, date, notes FROM workouts WHERE date = ?`, date).
		Scan(&w.ID, &w.Date, &w.Notes)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Workout{}, fmt.Errorf("querying workout for %s: %w", date, err)
	}

	res, err := db.SQL.ExecContext(ctx, `INSERT INTO workouts (date) VALUES (?)`, date)
	if err != nil {
		return models.Workout{}, fmt.Errorf("inserting workout for %s: %w", date, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Workout{}, fmt.Errorf("reading workout id: %w", err)
	}
	return models.Workout{ID: id, Date: date}, nil
}

// GetWorkoutByDate returns the workout for date, or ErrNotFound.
func (db *DB) GetWorkoutByDate(ctx context.Context, date string) (models.Workout, error) {
	var w models.Workout
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, date, notes FROM workouts WHERE date = ?`, date).
		Scan(&w.ID, &w.Date, &w.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Workout{}, fmt.Errorf("workout for %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return models.Workout{}, fmt.Errorf("querying workout for %s: %w", date, err)
	}
	return w, nil
}

// WorkoutDates returns all distinct workout dates, newest first, capped at
// limit (0 means no cap).
func (db *DB) WorkoutDates(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT DISTINCT date FROM workouts ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workout dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning workout date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// HistoryEntry is one set joined with its workout date and exercise, the row
// shape shown in history listings.
type HistoryEntry struct {
	SetID     int64
	Date      string
	Exercise  string
	SetNumber int
	Weight    float64
	Reps      int
	OneRM     float64
}

// HistoryFilter narrows and pages a history query. Zero values mean
// "no constraint".
type HistoryFilter struct {
	ExerciseID int64
	From       string // YYYY-MM-DD inclusive
	To         string // YYYY-MM-DD inclusive
	Limit      int
	Offset     int
}

// History returns filtered set history, newest first.
func (db *DB) History(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	query := `SELECT s.id, w.date, e.name, e.variation, s.set_number, s.weight, s.reps, s.one_rm
		FROM sets s
		JOIN workouts w ON w.id = s.workout_id
		JOIN exercises e ON e.id = s.exercise_id
		WHERE 1=1`
	var args []any
	if f.ExerciseID > 0 {
		query += ` AND s.exercise_id = ?`
		args = append(args, f.ExerciseID)
	}
	if f.From != "" {
		query += ` AND w.date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND w.date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY w.date DESC, s.set_number ASC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var name, variation string
		if err := rows.Scan(&h.SetID, &h.Date, &name, &variation, &h.SetNumber, &h.Weight, &h.Reps, &h.OneRM); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		h.Exercise = (models.Exercise{Name: name, Variation: variation}).DisplayName()
		result = append(result, h)
	}
	return result, rows.Err()
}

// HistoryCount returns the number of sets matching the filter, for paging.
func (db *DB) HistoryCount(ctx context.Context, f HistoryFilter) (int, error) {
	query := `SELECT COUNT(*)
		FROM sets s
		JOIN workouts w ON w.id = s.workout_id
		WHERE 1=1`
	var args []any
	if f.ExerciseID > 0 {
		query += ` AND s.exercise_id = ?`
		args = append(args, f.ExerciseID)
	}
	if f.From != "" {
		query += ` AND w.date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND w.date <= ?`
		args = append(args, f.To)
	}
	var count int
	if err := db.SQL.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return count, nil
}
