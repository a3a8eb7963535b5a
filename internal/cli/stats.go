package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/derive"
	"github.com/meltforce/ironlog/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate training statistics",
}

var statsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals across all training data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			s, err := db.GetDataStats(ctx, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workouts:\t%d\n", s.TotalWorkouts)
			fmt.Fprintf(out, "This month:\t%d\n", s.WorkoutsThisMonth)
			fmt.Fprintf(out, "Sets:\t%d (%.1f per workout)\n", s.TotalSets, s.AvgSetsPerWorkout)
			fmt.Fprintf(out, "Volume:\t%.1f kg\n", s.TotalVolume)
			fmt.Fprintf(out, "Avg weight:\t%.1f kg\n", s.AvgWeight)
			fmt.Fprintf(out, "Exercises used:\t%d\n", s.TotalExercises)
			if s.EarliestDate != "" {
				fmt.Fprintf(out, "Range:\t%s .. %s\n", s.EarliestDate, s.LatestDate)
			}
			fmt.Fprintf(out, "Current streak:\t%d day(s)\n", s.CurrentStreak)
			fmt.Fprintf(out, "Longest streak:\t%d day(s)\n", s.MaxStreak)
			return nil
		})
	},
}

var statsRecordsLimit int

var statsRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Best estimated one-rep max per exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			records, err := db.BestRecords(ctx, statsRecordsLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "EXERCISE\tMAX WEIGHT\tMAX REPS\tBEST 1RM")
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f\t%d\t%.1f\n",
					r.Exercise, r.MaxWeight, r.MaxReps, r.MaxOneRM)
			}
			return nil
		})
	},
}

var statsStreaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Current and longest training streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			s, err := db.GetDataStats(ctx, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current streak:\t%d day(s)\n", s.CurrentStreak)
			fmt.Fprintf(cmd.OutOrStdout(), "Longest streak:\t%d day(s)\n", s.MaxStreak)
			return nil
		})
	},
}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var analysisDays int

var statsFrequencyCmd = &cobra.Command{
	Use:   "frequency",
	Short: "Workout counts by weekday",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			counts, err := db.TrainingFrequency(ctx, analysisWindow())
			if err != nil {
				return err
			}
			for i, n := range counts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", weekdayNames[i], n)
			}
			return nil
		})
	},
}

var statsCategoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Sets and volume per exercise category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			categories, err := db.CategoryAnalysis(ctx, analysisWindow())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "CATEGORY\tSETS\tVOLUME")
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.1f\n", c.Category, c.Sets, c.Volume)
			}
			return nil
		})
	},
}

var (
	seriesExercise int64
	seriesMetric   string
	seriesDays     int
)

var statsSeriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Per-date progress series for one exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seriesExercise <= 0 {
			return fmt.Errorf("--exercise is required")
		}
		var from time.Time
		if seriesDays > 0 {
			from = time.Now().AddDate(0, 0, -seriesDays)
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			samples, err := db.SetSamples(ctx, seriesExercise, from)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch seriesMetric {
			case "1rm":
				fmt.Fprintln(out, "DATE\tBEST 1RM")
				for _, p := range derive.OneRMSeries(samples) {
					fmt.Fprintf(out, "%s\t%.1f\n", p.Date.Format("2006-01-02"), p.Value)
				}
			case "weight":
				fmt.Fprintln(out, "DATE\tMAX\tAVG")
				for _, p := range derive.WeightSeries(samples) {
					fmt.Fprintf(out, "%s\t%.1f\t%.1f\n", p.Date.Format("2006-01-02"), p.Max, p.Avg)
				}
			case "volume":
				fmt.Fprintln(out, "DATE\tVOLUME")
				for _, p := range derive.VolumeSeries(samples) {
					fmt.Fprintf(out, "%s\t%.1f\n", p.Date.Format("2006-01-02"), p.Value)
				}
			default:
				return fmt.Errorf("unknown --metric %q (1rm, weight, volume)", seriesMetric)
			}
			return nil
		})
	},
}

func analysisWindow() time.Time {
	if analysisDays <= 0 {
		return time.Time{}
	}
	return time.Now().AddDate(0, 0, -analysisDays)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsSummaryCmd, statsRecordsCmd, statsStreaksCmd,
		statsFrequencyCmd, statsCategoryCmd, statsSeriesCmd)

	statsRecordsCmd.Flags().IntVar(&statsRecordsLimit, "limit", 10, "How many records to show")
	for _, c := range []*cobra.Command{statsFrequencyCmd, statsCategoryCmd} {
		c.Flags().IntVar(&analysisDays, "days", 0, "Window in days (0 = all history)")
	}
	statsSeriesCmd.Flags().Int64Var(&seriesExercise, "exercise", 0, "Exercise ID")
	statsSeriesCmd.Flags().StringVar(&seriesMetric, "metric", "1rm", "Series metric: 1rm, weight or volume")
	statsSeriesCmd.Flags().IntVar(&seriesDays, "days", 90, "Window in days (0 = all history)")
}
