package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/derive"
	"github.com/meltforce/ironlog/internal/models"
)

// AddSet inserts one performed set under the workout for date, deriving the
// stored one-rep max from weight and reps. Callers validate inputs first.
func (db *DB) AddSet(ctx context.Context, date string, exerciseID int64, setNumber int, weight float64, reps int) (models.Set, error) {
	var set models.Set
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		workoutID, err := getOrCreateWorkoutTx(ctx, tx, date)
		if err != nil {
			return err
		}
		return insertSetTx(ctx, tx, &set, workoutID, exerciseID, setNumber, weight, reps)
	})
	if err != nil {
		return models.Set{}, err
	}
	return set, nil
}

// AddSets inserts a whole session's sets for one exercise in a single
// transaction, numbering them sequentially after any existing sets.
func (db *DB) AddSets(ctx context.Context, date string, exerciseID int64, pairs [][2]float64) ([]models.Set, error) {
	sets := make([]models.Set, len(pairs))
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		workoutID, err := getOrCreateWorkoutTx(ctx, tx, date)
		if err != nil {
			return err
		}
		var next int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(set_number), 0) + 1 FROM sets WHERE workout_id = ? AND exercise_id = ?`,
			workoutID, exerciseID).Scan(&next); err != nil {
			return fmt.Errorf("counting existing sets: %w", err)
		}
		for i, p := range pairs {
			if err := insertSetTx(ctx, tx, &sets[i], workoutID, exerciseID, next+i, p[0], int(p[1])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

func getOrCreateWorkoutTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM workouts WHERE date = ?`, date).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("querying workout for %s: %w", date, err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO workouts (date) VALUES (?)`, date)
	if err != nil {
		return 0, fmt.Errorf("inserting workout for %s: %w", date, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading workout id: %w", err)
	}
	return id, nil
}

func insertSetTx(ctx context.Context, tx *sql.Tx, out *models.Set, workoutID, exerciseID int64, setNumber int, weight float64, reps int) error {
	oneRM := derive.OneRepMax(weight, reps)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sets (workout_id, exercise_id, set_number, weight, reps, one_rm)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		workoutID, exerciseID, setNumber, weight, reps, oneRM)
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading set id: %w", err)
	}
	*out = models.Set{
		ID:         id,
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		SetNumber:  setNumber,
		Weight:     weight,
		Reps:       reps,
		OneRM:      oneRM,
	}
	return nil
}

// DeleteSet removes one set by id.
func (db *DB) DeleteSet(ctx context.Context, id int64) error {
	res, err := db.SQL.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting set %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting set %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("set %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetsForWorkout returns a workout's sets ordered by exercise then set number.
func (db *DB) SetsForWorkout(ctx context.Context, workoutID int64) ([]models.Set, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, workout_id, exercise_id, set_number, weight, reps, one_rm
		 FROM sets WHERE workout_id = ?
		 ORDER BY exercise_id, set_number`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying sets for workout %d: %w", workoutID, err)
	}
	defer rows.Close()
	return scanSets(rows)
}

// RecentExerciseSets returns the most recently logged sets for an exercise,
// newest first, capped at limit.
func (db *DB) RecentExerciseSets(ctx context.Context, exerciseID int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return db.History(ctx, HistoryFilter{ExerciseID: exerciseID, Limit: limit})
}

// SetSamples returns an exercise's sets inside the window as derivation
// samples. A zero from time means "all history".
func (db *DB) SetSamples(ctx context.Context, exerciseID int64, from time.Time) ([]derive.SetSample, error) {
	query := `SELECT w.date, s.weight, s.reps, s.one_rm
		FROM sets s JOIN workouts w ON w.id = s.workout_id
		WHERE s.exercise_id = ?`
	args := []any{exerciseID}
	if !from.IsZero() {
		query += ` AND w.date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	query += ` ORDER BY w.date`

	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying set samples: %w", err)
	}
	defer rows.Close()

	var samples []derive.SetSample
	for rows.Next() {
		var date string
		var s derive.SetSample
		if err := rows.Scan(&date, &s.Weight, &s.Reps, &s.OneRM); err != nil {
			return nil, fmt.Errorf("scanning set sample: %w", err)
		}
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		s.Date = t
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func scanSets(rows *sql.Rows) ([]models.Set, error) {
	var result []models.Set
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.SetNumber, &s.Weight, &s.Reps, &s.OneRM); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
