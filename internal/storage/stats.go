package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/derive"
)

// DataStats holds aggregate statistics about all stored training data.
type DataStats struct {
	TotalWorkouts     int64   `json:"total_workouts"`
	TotalSets         int64   `json:"total_sets"`
	TotalVolume       float64 `json:"total_volume"`
	TotalExercises    int64   `json:"total_exercises_used"`
	AvgSetsPerWorkout float64 `json:"avg_sets_per_workout"`
	AvgWeight         float64 `json:"avg_weight"`
	WorkoutsThisMonth int64   `json:"workouts_this_month"`
	EarliestDate      string  `json:"earliest_date,omitempty"`
	LatestDate        string  `json:"latest_date,omitempty"`
	CurrentStreak     int     `json:"current_streak"`
	MaxStreak         int     `json:"max_streak"`
}

// GetDataStats returns the aggregate summary plus streaks relative to today.
func (db *DB) GetDataStats(ctx context.Context, today time.Time) (*DataStats, error) {
	stats := &DataStats{}

	err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MIN(date), ''), COALESCE(MAX(date), '') FROM workouts`).
		Scan(&stats.TotalWorkouts, &stats.EarliestDate, &stats.LatestDate)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(weight * reps), 0), COUNT(DISTINCT exercise_id),
		        COALESCE(AVG(CASE WHEN weight > 0 THEN weight END), 0)
		 FROM sets`).
		Scan(&stats.TotalSets, &stats.TotalVolume, &stats.TotalExercises, &stats.AvgWeight)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}
	if stats.TotalWorkouts > 0 {
		stats.AvgSetsPerWorkout = float64(stats.TotalSets) / float64(stats.TotalWorkouts)
	}

	err = db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workouts WHERE date LIKE ?`, today.Format("2006-01")+"%").
		Scan(&stats.WorkoutsThisMonth)
	if err != nil {
		return nil, fmt.Errorf("counting workouts this month: %w", err)
	}

	dates, err := db.workoutDatesAsTime(ctx)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = derive.CurrentStreak(dates, today)

	ascending := make([]time.Time, len(dates))
	for i, d := range dates {
		ascending[len(dates)-1-i] = d
	}
	stats.MaxStreak = derive.MaxStreak(ascending)
	return stats, nil
}

// BestRecord is one exercise's personal bests. The maxima are independent:
// the heaviest set, the longest set and the best estimated one-rep max may
// come from different workouts.
type BestRecord struct {
	ExerciseID int64
	Exercise   string
	MaxWeight  float64
	MaxReps    int
	MaxOneRM   float64
}

// BestRecords returns per-exercise personal bests, strongest estimated
// one-rep max first, capped at limit (0 means the top 10).
func (db *DB) BestRecords(ctx context.Context, limit int) ([]BestRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT s.exercise_id, e.name, e.variation,
		        MAX(s.weight), MAX(s.reps), MAX(s.one_rm)
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 GROUP BY s.exercise_id
		 ORDER BY MAX(s.one_rm) DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying best records: %w", err)
	}
	defer rows.Close()

	var result []BestRecord
	for rows.Next() {
		var r BestRecord
		var name, variation string
		if err := rows.Scan(&r.ExerciseID, &name, &variation, &r.MaxWeight, &r.MaxReps, &r.MaxOneRM); err != nil {
			return nil, fmt.Errorf("scanning best record: %w", err)
		}
		r.Exercise = name + " (" + variation + ")"
		result = append(result, r)
	}
	return result, rows.Err()
}

// TrainingFrequency returns workout counts bucketed by weekday, Monday
// first. A zero from time means all history.
func (db *DB) TrainingFrequency(ctx context.Context, from time.Time) ([7]int, error) {
	query := `SELECT CAST(strftime('%w', date) AS INTEGER), COUNT(*) FROM workouts`
	args := []any{}
	if !from.IsZero() {
		query += ` WHERE date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	query += ` GROUP BY 1`

	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return [7]int{}, fmt.Errorf("querying training frequency: %w", err)
	}
	defer rows.Close()

	sundayBased := make(map[int]int, 7)
	for rows.Next() {
		var weekday, count int
		if err := rows.Scan(&weekday, &count); err != nil {
			return [7]int{}, fmt.Errorf("scanning training frequency: %w", err)
		}
		sundayBased[weekday] = count
	}
	if err := rows.Err(); err != nil {
		return [7]int{}, err
	}
	return derive.WeekdayCounts(sundayBased), nil
}

// CategoryStat summarizes one exercise category's share of training.
type CategoryStat struct {
	Category string
	Sets     int64
	Volume   float64
}

// CategoryAnalysis returns per-category set counts and volume inside the
// window, biggest volume first. A zero from time means all history.
func (db *DB) CategoryAnalysis(ctx context.Context, from time.Time) ([]CategoryStat, error) {
	query := `SELECT e.category, COUNT(*), COALESCE(SUM(s.weight * s.reps), 0)
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 JOIN workouts w ON w.id = s.workout_id`
	args := []any{}
	if !from.IsZero() {
		query += ` WHERE w.date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	query += ` GROUP BY e.category ORDER BY 3 DESC`

	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying category analysis: %w", err)
	}
	defer rows.Close()

	var result []CategoryStat
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Sets, &c.Volume); err != nil {
			return nil, fmt.Errorf("scanning category stat: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (db *DB) workoutDatesAsTime(ctx context.Context) ([]time.Time, error) {
	raw, err := db.WorkoutDates(ctx, 0)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(raw))
	for _, d := range raw {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	return dates, nil
}
