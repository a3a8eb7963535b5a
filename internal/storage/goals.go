package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// ErrDuplicateGoal is returned when an exercise already has a goal for the
// target month.
var ErrDuplicateGoal = errors.New("goal already exists for exercise and month")

const goalColumns = `id, exercise_id, kind, target_weight, target_reps, target_sets,
	current_achieved_sets, current_max_weight, target_month, achieved, notes, created_at, updated_at`

// AddGoal inserts a goal. Achievement goals default to 8 reps and 3 sets
// when unset; one goal per (exercise, month).
func (db *DB) AddGoal(ctx context.Context, g models.Goal) (models.Goal, error) {
	if g.Kind == "" {
		g.Kind = models.GoalKindAchievement
	}
	if g.Kind == models.GoalKindAchievement {
		if g.TargetReps <= 0 {
			g.TargetReps = 8
		}
		if g.TargetSets <= 0 {
			g.TargetSets = 3
		}
	} else {
		g.TargetReps = 1
		g.TargetSets = 1
	}

	now := time.Now().UTC()
	res, err := db.SQL.ExecContext(ctx,
		`INSERT INTO goals (exercise_id, kind, target_weight, target_reps, target_sets,
		 current_achieved_sets, current_max_weight, target_month, achieved, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?, 0, ?, ?, ?)`,
		g.ExerciseID, g.Kind, g.TargetWeight, g.TargetReps, g.TargetSets,
		g.TargetMonth, g.Notes, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Goal{}, fmt.Errorf("exercise %d month %s: %w", g.ExerciseID, g.TargetMonth, ErrDuplicateGoal)
		}
		return models.Goal{}, fmt.Errorf("inserting goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Goal{}, fmt.Errorf("reading goal id: %w", err)
	}
	g.ID = id
	g.CurrentAchievedSets = 0
	g.CurrentMaxWeight = 0
	g.Achieved = false
	g.CreatedAt = now
	g.UpdatedAt = now
	return g, nil
}

// GetGoal returns one goal by id.
func (db *DB) GetGoal(ctx context.Context, id int64) (models.Goal, error) {
	row := db.SQL.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("querying goal %d: %w", id, err)
	}
	return g, nil
}

// GoalFilter narrows goal listings. Zero values mean "no constraint".
type GoalFilter struct {
	ExerciseID     int64
	Month          string // YYYY-MM
	Kind           models.GoalKind
	UnachievedOnly bool
}

// ListGoals returns goals newest month first.
func (db *DB) ListGoals(ctx context.Context, f GoalFilter) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE 1=1`
	var args []any
	if f.ExerciseID > 0 {
		query += ` AND exercise_id = ?`
		args = append(args, f.ExerciseID)
	}
	if f.Month != "" {
		query += ` AND target_month = ?`
		args = append(args, f.Month)
	}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	if f.UnachievedOnly {
		query += ` AND achieved = 0
			AND NOT (kind = 'legacy' AND current_max_weight >= target_weight)
			AND NOT (kind = 'achievement' AND current_achieved_sets >= target_sets)`
	}
	query += ` ORDER BY target_month DESC, exercise_id`

	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()
	return scanGoals(rows)
}

// UpdateGoal rewrites the target fields of an existing goal.
func (db *DB) UpdateGoal(ctx context.Context, g models.Goal) error {
	res, err := db.SQL.ExecContext(ctx,
		`UPDATE goals SET target_weight = ?, target_reps = ?, target_sets = ?,
		 target_month = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		g.TargetWeight, g.TargetReps, g.TargetSets, g.TargetMonth, g.Notes,
		time.Now().UTC(), g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("exercise %d month %s: %w", g.ExerciseID, g.TargetMonth, ErrDuplicateGoal)
		}
		return fmt.Errorf("updating goal %d: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating goal %d: %w", g.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("goal %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DeleteGoal removes a goal by id.
func (db *DB) DeleteGoal(ctx context.Context, id int64) error {
	res, err := db.SQL.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting goal %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkGoalAchieved forces a goal into its terminal achieved state.
func (db *DB) MarkGoalAchieved(ctx context.Context, id int64) error {
	g, err := db.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	g.MarkAchieved()
	_, err = db.SQL.ExecContext(ctx,
		`UPDATE goals SET achieved = 1, current_achieved_sets = ?, current_max_weight = ?, updated_at = ?
		 WHERE id = ?`,
		g.CurrentAchievedSets, g.CurrentMaxWeight, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("marking goal %d achieved: %w", id, err)
	}
	return nil
}

// RefreshGoalsFromHistory recomputes every unachieved goal's progress
// counters from logged sets. Legacy goals take the exercise's best stored
// one-rep max; achievement goals count qualifying sets (weight and reps both
// at or above target) across all history. Counters only ever move up.
func (db *DB) RefreshGoalsFromHistory(ctx context.Context) (int, error) {
	goals, err := db.ListGoals(ctx, GoalFilter{})
	if err != nil {
		return 0, err
	}

	updated := 0
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for _, g := range goals {
			if g.Achieved {
				continue
			}
			changed, err := refreshGoalTx(ctx, tx, g)
			if err != nil {
				return err
			}
			if changed {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// RefreshGoalFromHistory recomputes a single goal, same rules as the bulk
// path.
func (db *DB) RefreshGoalFromHistory(ctx context.Context, id int64) (models.Goal, error) {
	g, err := db.GetGoal(ctx, id)
	if err != nil {
		return models.Goal{}, err
	}
	if !g.Achieved {
		err = db.withTx(ctx, func(tx *sql.Tx) error {
			_, err := refreshGoalTx(ctx, tx, g)
			return err
		})
		if err != nil {
			return models.Goal{}, err
		}
	}
	return db.GetGoal(ctx, id)
}

func refreshGoalTx(ctx context.Context, tx *sql.Tx, g models.Goal) (bool, error) {
	var maxWeight, maxOneRM sql.NullFloat64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(weight), MAX(one_rm) FROM sets WHERE exercise_id = ?`,
		g.ExerciseID).Scan(&maxWeight, &maxOneRM)
	if err != nil {
		return false, fmt.Errorf("querying exercise records: %w", err)
	}

	newSets := g.CurrentAchievedSets
	newMax := g.CurrentMaxWeight
	switch g.Kind {
	case models.GoalKindLegacy:
		if maxOneRM.Valid && maxOneRM.Float64 > newMax {
			newMax = maxOneRM.Float64
		}
	default:
		var qualifying int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sets WHERE exercise_id = ? AND weight >= ? AND reps >= ?`,
			g.ExerciseID, g.TargetWeight, g.TargetReps).Scan(&qualifying)
		if err != nil {
			return false, fmt.Errorf("counting qualifying sets: %w", err)
		}
		if qualifying > newSets {
			newSets = qualifying
		}
		if maxWeight.Valid && maxWeight.Float64 > newMax {
			newMax = maxWeight.Float64
		}
	}

	if newSets == g.CurrentAchievedSets && newMax == g.CurrentMaxWeight {
		return false, nil
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE goals SET current_achieved_sets = ?, current_max_weight = ?, updated_at = ? WHERE id = ?`,
		newSets, newMax, time.Now().UTC(), g.ID)
	if err != nil {
		return false, fmt.Errorf("updating goal %d progress: %w", g.ID, err)
	}
	return true, nil
}

// AchievableGoals returns unachieved goals whose tracked counter has already
// crossed its target.
func (db *DB) AchievableGoals(ctx context.Context) ([]models.Goal, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE achieved = 0
		   AND ((kind = 'legacy' AND target_weight > 0 AND current_max_weight >= target_weight)
		     OR (kind = 'achievement' AND target_sets > 0 AND current_achieved_sets >= target_sets))
		 ORDER BY target_month DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying achievable goals: %w", err)
	}
	defer rows.Close()
	return scanGoals(rows)
}

// AlmostThereGoals returns unachieved achievement goals within two sets of
// their target.
func (db *DB) AlmostThereGoals(ctx context.Context) ([]models.Goal, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE achieved = 0 AND kind = 'achievement'
		   AND target_sets - current_achieved_sets > 0
		   AND target_sets - current_achieved_sets <= 2
		 ORDER BY target_sets - current_achieved_sets, target_month DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying almost-there goals: %w", err)
	}
	defer rows.Close()
	return scanGoals(rows)
}

// GoalStats summarizes the goals table.
type GoalStats struct {
	Total           int
	Achieved        int
	Active          int
	AchievementRate float64 // percent
}

// GoalStatistics returns totals and the achievement rate across all goals.
func (db *DB) GoalStatistics(ctx context.Context) (GoalStats, error) {
	var s GoalStats
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN achieved = 1
		            OR (kind = 'legacy' AND target_weight > 0 AND current_max_weight >= target_weight)
		            OR (kind = 'achievement' AND target_sets > 0 AND current_achieved_sets >= target_sets)
		          THEN 1 ELSE 0 END), 0)
		 FROM goals`).Scan(&s.Total, &s.Achieved)
	if err != nil {
		return GoalStats{}, fmt.Errorf("querying goal statistics: %w", err)
	}
	s.Active = s.Total - s.Achieved
	if s.Total > 0 {
		s.AchievementRate = float64(s.Achieved) / float64(s.Total) * 100
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoalInto(r rowScanner, g *models.Goal) error {
	var achieved int
	if err := r.Scan(&g.ID, &g.ExerciseID, &g.Kind, &g.TargetWeight, &g.TargetReps,
		&g.TargetSets, &g.CurrentAchievedSets, &g.CurrentMaxWeight, &g.TargetMonth,
		&achieved, &g.Notes, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return err
	}
	g.Achieved = achieved != 0
	return nil
}

func scanGoal(r rowScanner) (models.Goal, error) {
	var g models.Goal
	err := scanGoalInto(r, &g)
	return g, err
}

func scanGoals(rows *sql.Rows) ([]models.Goal, error) {
	var result []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := scanGoalInto(rows, &g); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
