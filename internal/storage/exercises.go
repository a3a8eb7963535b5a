package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// defaultExercises is the catalogue seeded on first run.
var defaultExercises = []models.Exercise{
	{Name: "Bench Press", Variation: "Barbell", Category: "chest"},
	{Name: "Bench Press", Variation: "Dumbbell", Category: "chest"},
	{Name: "Bench Press", Variation: "Machine", Category: "chest"},
	{Name: "Chest Press", Variation: "Machine", Category: "chest"},
	{Name: "Dumbbell Fly", Variation: "Dumbbell", Category: "chest"},
	{Name: "Pec Fly", Variation: "Machine", Category: "chest"},
	{Name: "Cable Fly", Variation: "Cable", Category: "chest"},
	{Name: "Push-up", Variation: "Bodyweight", Category: "chest"},
	{Name: "Deadlift", Variation: "Barbell", Category: "back"},
	{Name: "Bent-over Row", Variation: "Barbell", Category: "back"},
	{Name: "Lat Pulldown", Variation: "Machine", Category: "back"},
	{Name: "Seated Row", Variation: "Machine", Category: "back"},
	{Name: "Pull-up", Variation: "Bodyweight", Category: "back"},
	{Name: "Chin-up", Variation: "Bodyweight", Category: "back"},
	{Name: "Squat", Variation: "Barbell", Category: "legs"},
	{Name: "Squat", Variation: "Bodyweight", Category: "legs"},
	{Name: "Leg Press", Variation: "Machine", Category: "legs"},
	{Name: "Leg Curl", Variation: "Machine", Category: "legs"},
	{Name: "Leg Extension", Variation: "Machine", Category: "legs"},
	{Name: "Shoulder Press", Variation: "Barbell", Category: "shoulders"},
	{Name: "Shoulder Press", Variation: "Dumbbell", Category: "shoulders"},
	{Name: "Shoulder Press", Variation: "Machine", Category: "shoulders"},
	{Name: "Side Raise", Variation: "Dumbbell", Category: "shoulders"},
	{Name: "Incline Side Raise", Variation: "Dumbbell", Category: "shoulders"},
	{Name: "Rear Delt", Variation: "Machine", Category: "shoulders"},
	{Name: "Face Pull", Variation: "Cable", Category: "shoulders"},
	{Name: "Barbell Curl", Variation: "Barbell", Category: "arms"},
	{Name: "Dumbbell Curl", Variation: "Dumbbell", Category: "arms"},
	{Name: "Incline Curl", Variation: "Dumbbell", Category: "arms"},
	{Name: "Incline Hammer Curl", Variation: "Dumbbell", Category: "arms"},
	{Name: "Cable Curl", Variation: "Cable", Category: "arms"},
	{Name: "Triceps Extension", Variation: "Dumbbell", Category: "arms"},
	{Name: "French Press", Variation: "Dumbbell", Category: "arms"},
	{Name: "Pushdown", Variation: "Cable", Category: "arms"},
	{Name: "Dips", Variation: "Bodyweight", Category: "arms"},
}

// SeedExercises inserts the default catalogue if the table is empty.
func (db *DB) SeedExercises(ctx context.Context) error {
	var count int
	if err := db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&count); err != nil {
		return fmt.Errorf("counting exercises: %w", err)
	}
	if count > 0 {
		return nil
	}
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range defaultExercises {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO exercises (name, variation, category) VALUES (?, ?, ?)`,
				e.Name, e.Variation, e.Category); err != nil {
				return fmt.Errorf("seeding exercise %q: %w", e.DisplayName(), err)
			}
		}
		return nil
	})
}

// ListExercises returns the catalogue ordered by category then name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, name, variation, category FROM exercises ORDER BY category, name, variation`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Variation, &e.Category); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise returns an exercise by id.
func (db *DB) GetExercise(ctx context.Context, id int64) (models.Exercise, error) {
	var e models.Exercise
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, name, variation, category FROM exercises WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Variation, &e.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Exercise{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Exercise{}, fmt.Errorf("querying exercise %d: %w", id, err)
	}
	return e, nil
}

// GetOrCreateExercise looks an exercise up by (name, variation) and inserts
// it when missing. Importers use this for exercises outside the catalogue.
func (db *DB) GetOrCreateExercise(ctx context.Context, name, variation, category string) (models.Exercise, error) {
	var e models.Exercise
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, name, variation, category FROM exercises WHERE name = ? AND variation = ?`,
		name, variation).Scan(&e.ID, &e.Name, &e.Variation, &e.Category)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Exercise{}, fmt.Errorf("querying exercise %q: %w", name, err)
	}

	res, err := db.SQL.ExecContext(ctx,
		`INSERT INTO exercises (name, variation, category) VALUES (?, ?, ?)`,
		name, variation, category)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Exercise{}, fmt.Errorf("reading exercise id: %w", err)
	}
	return models.Exercise{ID: id, Name: name, Variation: variation, Category: category}, nil
}
