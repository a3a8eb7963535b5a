package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/importer"
	"github.com/meltforce/ironlog/internal/jobs"
	"github.com/meltforce/ironlog/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import workouts and body measurements from external files",
}

var (
	importCSVExercise  string
	importCSVVariation string
	importCSVCategory  string
	importCSVOverwrite bool
)

var importCSVCmd = &cobra.Command{
	Use:   "csv FILE",
	Short: "Import workout sets from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			imp := importer.NewCSVImporter(db, logger)
			opts := importer.CSVOptions{
				ExerciseName:      importCSVExercise,
				ExerciseVariation: importCSVVariation,
				ExerciseCategory:  importCSVCategory,
				Overwrite:         importCSVOverwrite,
			}
			res := <-jobs.Run(ctx, func(ctx context.Context) (importer.Result, error) {
				return imp.Import(ctx, args[0], opts)
			})
			if res.Err != nil {
				return res.Err
			}
			printImportResult(cmd, res.Value)
			// New sets may complete strength goals.
			updated, err := db.RefreshGoalsFromHistory(ctx)
			if err != nil {
				return err
			}
			if updated > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d goal(s)\n", updated)
			}
			return nil
		})
	},
}

var importHealthCmd = &cobra.Command{
	Use:   "health FILE",
	Short: "Import body measurements from an Apple Health export.xml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			imp := importer.NewHealthImporter(db, logger)
			res := <-jobs.Run(ctx, func(ctx context.Context) (importer.Result, error) {
				return imp.Import(ctx, args[0])
			})
			if res.Err != nil {
				return res.Err
			}
			printImportResult(cmd, res.Value)
			return nil
		})
	},
}

var importExcelCmd = &cobra.Command{
	Use:   "excel FILE",
	Short: "Import body measurements from a spreadsheet (body scale export)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			imp := importer.NewExcelImporter(db, logger)
			res := <-jobs.Run(ctx, func(ctx context.Context) (importer.Result, error) {
				return imp.Import(ctx, args[0])
			})
			if res.Err != nil {
				return res.Err
			}
			printImportResult(cmd, res.Value)
			return nil
		})
	},
}

var importLogsLimit int

var importLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show past import runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			logs, err := db.QueryImportLogs(ctx, importLogsLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "STARTED\tSOURCE\tFILE\tSTATUS\tIMPORTED\tSKIPPED\tFAILED")
			for _, l := range logs {
				status := l.Status
				if l.Error != "" {
					status = fmt.Sprintf("%s (%s)", l.Status, l.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
					l.StartedAt.Format("2006-01-02 15:04"), l.Source, l.File, status,
					l.Imported, l.Skipped, l.Failed)
			}
			return nil
		})
	},
}

func printImportResult(cmd *cobra.Command, r importer.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d, failed %d\n",
		r.Imported, r.Skipped, r.Failed)
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importCSVCmd, importHealthCmd, importExcelCmd, importLogsCmd)

	importCSVCmd.Flags().StringVar(&importCSVExercise, "exercise-name", "", "Exercise the file belongs to (default guessed from the filename)")
	importCSVCmd.Flags().StringVar(&importCSVVariation, "variation", "", "Exercise variation")
	importCSVCmd.Flags().StringVar(&importCSVCategory, "category", "", "Exercise category")
	importCSVCmd.Flags().BoolVar(&importCSVOverwrite, "overwrite", false, "Replace sets already stored for a date instead of skipping it")

	importLogsCmd.Flags().IntVar(&importLogsLimit, "limit", 20, "Maximum runs to show")
}
