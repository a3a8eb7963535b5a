package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

var (
	historyExercise int64
	historyFrom     string
	historyTo       string
	historyLimit    int
	historyOffset   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show logged sets, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range []string{historyFrom, historyTo} {
			if d != "" {
				if err := validate.Date(d); err != nil {
					return err
				}
			}
		}
		filter := storage.HistoryFilter{
			ExerciseID: historyExercise,
			From:       historyFrom,
			To:         historyTo,
			Limit:      historyLimit,
			Offset:     historyOffset,
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			entries, err := db.History(ctx, filter)
			if err != nil {
				return err
			}
			total, err := db.HistoryCount(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tEXERCISE\tSET\tWEIGHT\tREPS\t1RM")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%.1f\t%d\t%.1f\n",
					e.Date, e.Exercise, e.SetNumber, e.Weight, e.Reps, e.OneRM)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d sets\n", len(entries), total)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int64Var(&historyExercise, "exercise", 0, "Filter by exercise ID")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Start date YYYY-MM-DD")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "End date YYYY-MM-DD")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Page size")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "Page offset")
}
