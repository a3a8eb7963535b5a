// Package importer brings external data sets into the store: training CSV
// exports, Apple Health XML dumps and body-composition Excel sheets. Every
// run is recorded in the import log with its outcome.
package importer

import (
	"context"

	"github.com/meltforce/ironlog/internal/storage"
)

// Result tracks one import run's outcome.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
}

// recordRun wraps an import function with import-log bookkeeping so failed
// runs still leave a trace.
func recordRun(ctx context.Context, db *storage.DB, source, file string, fn func() (Result, error)) (Result, error) {
	logID, err := db.BeginImportLog(ctx, source, file)
	if err != nil {
		return Result{}, err
	}
	res, runErr := fn()
	if err := db.FinishImportLog(ctx, logID, res.Imported, res.Skipped, res.Failed, runErr); err != nil {
		return res, err
	}
	return res, runErr
}
