package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// UpsertBodyStats records a body-composition snapshot for a date. An
// existing row for the same date is merged: only non-nil fields overwrite.
func (db *DB) UpsertBodyStats(ctx context.Context, s models.BodyStats) (models.BodyStats, error) {
	existing, err := db.GetBodyStats(ctx, s.Date)
	switch {
	case err == nil:
		if s.Weight == nil {
			s.Weight = existing.Weight
		}
		if s.BodyFatPercentage == nil {
			s.BodyFatPercentage = existing.BodyFatPercentage
		}
		if s.MuscleMass == nil {
			s.MuscleMass = existing.MuscleMass
		}
		_, err := db.SQL.ExecContext(ctx,
			`UPDATE body_stats SET weight = ?, body_fat_percentage = ?, muscle_mass = ? WHERE date = ?`,
			s.Weight, s.BodyFatPercentage, s.MuscleMass, s.Date)
		if err != nil {
			return models.BodyStats{}, fmt.Errorf("updating body stats for %s: %w", s.Date, err)
		}
		s.ID = existing.ID
		return s, nil
	case errors.Is(err, ErrNotFound):
		res, err := db.SQL.ExecContext(ctx,
			`INSERT INTO body_stats (date, weight, body_fat_percentage, muscle_mass) VALUES (?, ?, ?, ?)`,
			s.Date, s.Weight, s.BodyFatPercentage, s.MuscleMass)
		if err != nil {
			return models.BodyStats{}, fmt.Errorf("inserting body stats for %s: %w", s.Date, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return models.BodyStats{}, fmt.Errorf("reading body stats id: %w", err)
		}
		s.ID = id
		return s, nil
	default:
		return models.BodyStats{}, err
	}
}

// GetBodyStats returns the snapshot for a date, or ErrNotFound.
func (db *DB) GetBodyStats(ctx context.Context, date string) (models.BodyStats, error) {
	var s models.BodyStats
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, date, weight, body_fat_percentage, muscle_mass FROM body_stats WHERE date = ?`,
		date).Scan(&s.ID, &s.Date, &s.Weight, &s.BodyFatPercentage, &s.MuscleMass)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BodyStats{}, fmt.Errorf("body stats for %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return models.BodyStats{}, fmt.Errorf("querying body stats for %s: %w", date, err)
	}
	return s, nil
}

// ListBodyStats returns snapshots newest first, capped at limit (0 = no cap).
func (db *DB) ListBodyStats(ctx context.Context, limit int) ([]models.BodyStats, error) {
	query := `SELECT id, date, weight, body_fat_percentage, muscle_mass FROM body_stats ORDER BY date DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying body stats: %w", err)
	}
	defer rows.Close()

	var result []models.BodyStats
	for rows.Next() {
		var s models.BodyStats
		if err := rows.Scan(&s.ID, &s.Date, &s.Weight, &s.BodyFatPercentage, &s.MuscleMass); err != nil {
			return nil, fmt.Errorf("scanning body stats: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// LatestBodyStats returns the most recent snapshot, or ErrNotFound when none
// exist.
func (db *DB) LatestBodyStats(ctx context.Context) (models.BodyStats, error) {
	var s models.BodyStats
	err := db.SQL.QueryRowContext(ctx,
		`SELECT id, date, weight, body_fat_percentage, muscle_mass
		 FROM body_stats ORDER BY date DESC LIMIT 1`).
		Scan(&s.ID, &s.Date, &s.Weight, &s.BodyFatPercentage, &s.MuscleMass)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BodyStats{}, fmt.Errorf("latest body stats: %w", ErrNotFound)
	}
	if err != nil {
		return models.BodyStats{}, fmt.Errorf("querying latest body stats: %w", err)
	}
	return s, nil
}

// DeleteBodyStats removes the snapshot for a date.
func (db *DB) DeleteBodyStats(ctx context.Context, date string) error {
	res, err := db.SQL.ExecContext(ctx, `DELETE FROM body_stats WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("deleting body stats for %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting body stats for %s: %w", date, err)
	}
	if n == 0 {
		return fmt.Errorf("body stats for %s: %w", date, ErrNotFound)
	}
	return nil
}
