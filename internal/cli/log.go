package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

var (
	logDate     string
	logExercise int64
	logSets     []string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record sets for an exercise",
	Long: `Record one or more sets, e.g.:

  ironlog log --exercise 15 --set 100x5 --set 100x5 --set 95x8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if logExercise <= 0 {
			return fmt.Errorf("--exercise is required")
		}
		if len(logSets) == 0 {
			return fmt.Errorf("at least one --set is required")
		}
		date := logDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if err := validate.Date(date); err != nil {
			return err
		}
		pairs := make([][2]float64, 0, len(logSets))
		for _, raw := range logSets {
			weight, reps, err := parseSetArg(raw)
			if err != nil {
				return err
			}
			pairs = append(pairs, [2]float64{weight, float64(reps)})
		}

		return withDB(func(ctx context.Context, db *storage.DB) error {
			exercise, err := db.GetExercise(ctx, logExercise)
			if err != nil {
				return err
			}

			// previous-record hint before the new sets land
			recent, err := db.RecentExerciseSets(ctx, exercise.ID, 1)
			if err != nil {
				return err
			}
			if len(recent) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Last time (%s): %.1fkg x %d\n",
					recent[0].Date, recent[0].Weight, recent[0].Reps)
			}

			sets, err := db.AddSets(ctx, date, exercise.ID, pairs)
			if err != nil {
				return err
			}
			for _, s := range sets {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %d: %.1fkg x %d (est. 1RM %.1fkg)\n",
					s.SetNumber, s.Weight, s.Reps, s.OneRM)
			}

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

// parseSetArg parses "100x5" or "62.5x8" into weight and reps and applies
// the input limits.
func parseSetArg(s string) (float64, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid set %q (expected WEIGHTxREPS, e.g. 100x5)", s)
	}
	weight, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid weight in set %q", s)
	}
	reps, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reps in set %q", s)
	}
	if err := validate.SetData(weight, reps); err != nil {
		return 0, 0, err
	}
	return weight, reps, nil
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVar(&logDate, "date", "", "Workout date YYYY-MM-DD (default: today)")
	logCmd.Flags().Int64Var(&logExercise, "exercise", 0, "Exercise ID (see: ironlog exercise list)")
	logCmd.Flags().StringArrayVar(&logSets, "set", nil, "Set as WEIGHTxREPS, repeatable")
}
