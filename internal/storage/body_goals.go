package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

const bodyGoalColumns = `id, name, target_weight, target_muscle_mass, target_body_fat, target_bmi,
	current_weight, current_muscle_mass, current_body_fat, current_bmi,
	baseline_weight, baseline_muscle_mass, baseline_body_fat, baseline_bmi,
	target_date, achieved, notes, created_at, updated_at`

// AddBodyGoal inserts a body-composition goal. The baseline is captured from
// the latest body stats snapshot at creation time; with no snapshots the
// baseline stays nil and stays nil forever.
func (db *DB) AddBodyGoal(ctx context.Context, g models.BodyCompositionGoal) (models.BodyCompositionGoal, error) {
	if !g.HasTarget() {
		return models.BodyCompositionGoal{}, errors.New("body goal needs at least one target dimension")
	}

	latest, err := db.LatestBodyStats(ctx)
	if err == nil {
		g.BaselineWeight = latest.Weight
		g.BaselineBodyFat = latest.BodyFatPercentage
		g.BaselineMuscleMass = latest.MuscleMass
		g.CurrentWeight = latest.Weight
		g.CurrentBodyFat = latest.BodyFatPercentage
		g.CurrentMuscleMass = latest.MuscleMass
	} else if !errors.Is(err, ErrNotFound) {
		return models.BodyCompositionGoal{}, err
	}

	now := time.Now().UTC()
	res, err := db.SQL.ExecContext(ctx,
		`INSERT INTO body_composition_goals
		 (name, target_weight, target_muscle_mass, target_body_fat, target_bmi,
		  current_weight, current_muscle_mass, current_body_fat, current_bmi,
		  baseline_weight, baseline_muscle_mass, baseline_body_fat, baseline_bmi,
		  target_date, achieved, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		g.Name, g.TargetWeight, g.TargetMuscleMass, g.TargetBodyFat, g.TargetBMI,
		g.CurrentWeight, g.CurrentMuscleMass, g.CurrentBodyFat, g.CurrentBMI,
		g.BaselineWeight, g.BaselineMuscleMass, g.BaselineBodyFat, g.BaselineBMI,
		g.TargetDate, g.Notes, now, now)
	if err != nil {
		return models.BodyCompositionGoal{}, fmt.Errorf("inserting body goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.BodyCompositionGoal{}, fmt.Errorf("reading body goal id: %w", err)
	}
	g.ID = id
	g.Achieved = false
	g.CreatedAt = now
	g.UpdatedAt = now
	return g, nil
}

// GetBodyGoal returns one body-composition goal by id.
func (db *DB) GetBodyGoal(ctx context.Context, id int64) (models.BodyCompositionGoal, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+bodyGoalColumns+` FROM body_composition_goals WHERE id = ?`, id)
	g, err := scanBodyGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BodyCompositionGoal{}, fmt.Errorf("body goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.BodyCompositionGoal{}, fmt.Errorf("querying body goal %d: %w", id, err)
	}
	return g, nil
}

// ListBodyGoals returns body goals, newest target date first.
func (db *DB) ListBodyGoals(ctx context.Context) ([]models.BodyCompositionGoal, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT `+bodyGoalColumns+` FROM body_composition_goals ORDER BY target_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying body goals: %w", err)
	}
	defer rows.Close()

	var result []models.BodyCompositionGoal
	for rows.Next() {
		g, err := scanBodyGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning body goal: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// UpdateBodyGoal persists a goal's name, targets, target date and notes.
// Baselines, current values and the achieved flag are managed elsewhere.
func (db *DB) UpdateBodyGoal(ctx context.Context, g models.BodyCompositionGoal) error {
	if !g.HasTarget() {
		return errors.New("body goal needs at least one target dimension")
	}
	res, err := db.SQL.ExecContext(ctx,
		`UPDATE body_composition_goals
		 SET name = ?, target_weight = ?, target_muscle_mass = ?, target_body_fat = ?,
		     target_bmi = ?, target_date = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, g.TargetWeight, g.TargetMuscleMass, g.TargetBodyFat, g.TargetBMI,
		g.TargetDate, g.Notes, time.Now().UTC(), g.ID)
	if err != nil {
		return fmt.Errorf("updating body goal %d: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating body goal %d: %w", g.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("body goal %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// RefreshBodyGoals copies the latest body stats into every unachieved goal's
// current values. Baselines are never touched.
func (db *DB) RefreshBodyGoals(ctx context.Context) error {
	latest, err := db.LatestBodyStats(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = db.SQL.ExecContext(ctx,
		`UPDATE body_composition_goals
		 SET current_weight = COALESCE(?, current_weight),
		     current_body_fat = COALESCE(?, current_body_fat),
		     current_muscle_mass = COALESCE(?, current_muscle_mass),
		     updated_at = ?
		 WHERE achieved = 0`,
		latest.Weight, latest.BodyFatPercentage, latest.MuscleMass, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("refreshing body goals: %w", err)
	}
	return nil
}

// MarkBodyGoalAchieved sets the achieved flag.
func (db *DB) MarkBodyGoalAchieved(ctx context.Context, id int64) error {
	res, err := db.SQL.ExecContext(ctx,
		`UPDATE body_composition_goals SET achieved = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("marking body goal %d achieved: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking body goal %d achieved: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("body goal %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBodyGoal removes a body goal by id.
func (db *DB) DeleteBodyGoal(ctx context.Context, id int64) error {
	res, err := db.SQL.ExecContext(ctx, `DELETE FROM body_composition_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting body goal %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting body goal %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("body goal %d: %w", id, ErrNotFound)
	}
	return nil
}

// BodyGoalStats summarizes the body-composition goals table.
type BodyGoalStats struct {
	Total           int
	Achieved        int
	Active          int
	Overdue         int
	AchievementRate float64 // percent
}

// BodyGoalStatistics returns totals, the overdue count relative to today,
// and the achievement rate.
func (db *DB) BodyGoalStatistics(ctx context.Context, today string) (BodyGoalStats, error) {
	var s BodyGoalStats
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(achieved), 0),
		        COALESCE(SUM(CASE WHEN achieved = 0 AND target_date != '' AND target_date < ? THEN 1 ELSE 0 END), 0)
		 FROM body_composition_goals`, today).Scan(&s.Total, &s.Achieved, &s.Overdue)
	if err != nil {
		return BodyGoalStats{}, fmt.Errorf("querying body goal statistics: %w", err)
	}
	s.Active = s.Total - s.Achieved
	if s.Total > 0 {
		s.AchievementRate = float64(s.Achieved) / float64(s.Total) * 100
	}
	return s, nil
}

func scanBodyGoal(r rowScanner) (models.BodyCompositionGoal, error) {
	var g models.BodyCompositionGoal
	var achieved int
	err := r.Scan(&g.ID, &g.Name,
		&g.TargetWeight, &g.TargetMuscleMass, &g.TargetBodyFat, &g.TargetBMI,
		&g.CurrentWeight, &g.CurrentMuscleMass, &g.CurrentBodyFat, &g.CurrentBMI,
		&g.BaselineWeight, &g.BaselineMuscleMass, &g.BaselineBodyFat, &g.BaselineBMI,
		&g.TargetDate, &achieved, &g.Notes, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return models.BodyCompositionGoal{}, err
	}
	g.Achieved = achieved != 0
	return g, nil
}
