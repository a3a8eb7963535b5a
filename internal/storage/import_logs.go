package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// BeginImportLog records the start of an importer run and returns its id.
func (db *DB) BeginImportLog(ctx context.Context, source, file string) (string, error) {
	id := uuid.NewString()
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO import_logs (id, source, file, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		id, source, file, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// FinishImportLog records an importer run's outcome, flipping the status to
// success or error.
func (db *DB) FinishImportLog(ctx context.Context, id string, imported, skipped, failed int, runErr error) error {
	status := "success"
	errMsg := ""
	if runErr != nil {
		status = "error"
		errMsg = runErr.Error()
	}
	_, err := db.SQL.ExecContext(ctx,
		`UPDATE import_logs SET status = ?, imported = ?, skipped = ?, failed = ?,
		 error_message = ?, finished_at = ? WHERE id = ?`,
		status, imported, skipped, failed, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating import log %s: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import runs.
func (db *DB) QueryImportLogs(ctx context.Context, limit int) ([]models.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, source, file, status, imported, skipped, failed, error_message, started_at, finished_at
		 FROM import_logs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		if err := rows.Scan(&l.ID, &l.Source, &l.File, &l.Status, &l.Imported, &l.Skipped,
			&l.Failed, &l.Error, &l.StartedAt, &l.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
