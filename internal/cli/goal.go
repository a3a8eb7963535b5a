package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage strength goals",
}

var (
	goalExercise int64
	goalWeight   float64
	goalReps     int
	goalSets     int
	goalMonth    string
	goalNotes    string
	goalLegacy   bool
)

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a goal for an exercise and month",
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalExercise <= 0 {
			return fmt.Errorf("--exercise is required")
		}
		if goalWeight <= 0 {
			return fmt.Errorf("--weight must be positive")
		}
		if err := validate.Month(goalMonth); err != nil {
			return err
		}
		kind := models.GoalKindAchievement
		if goalLegacy {
			kind = models.GoalKindLegacy
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			g, err := db.AddGoal(ctx, models.Goal{
				ExerciseID:   goalExercise,
				Kind:         kind,
				TargetWeight: goalWeight,
				TargetReps:   goalReps,
				TargetSets:   goalSets,
				TargetMonth:  goalMonth,
				Notes:        goalNotes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %d: %s by %s\n", g.ID, g.TargetDescription(), g.TargetMonth)
			return nil
		})
	},
}

var (
	goalListMonth      string
	goalListUnachieved bool
)

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalListMonth != "" {
			if err := validate.Month(goalListMonth); err != nil {
				return err
			}
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			goals, err := db.ListGoals(ctx, storage.GoalFilter{
				Month:          goalListMonth,
				UnachievedOnly: goalListUnachieved,
			})
			if err != nil {
				return err
			}
			printGoals(cmd, goals)
			return nil
		})
	},
}

var goalUpdateCmd = &cobra.Command{
	Use:   "update <goal-id>",
	Short: "Update a goal's targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			g, err := db.GetGoal(ctx, id)
			if err != nil {
				return err
			}
			if goalWeight > 0 {
				g.TargetWeight = goalWeight
			}
			if goalReps > 0 {
				g.TargetReps = goalReps
			}
			if goalSets > 0 {
				g.TargetSets = goalSets
			}
			if goalMonth != "" {
				if err := validate.Month(goalMonth); err != nil {
					return err
				}
				g.TargetMonth = goalMonth
			}
			if goalNotes != "" {
				g.Notes = goalNotes
			}
			if err := db.UpdateGoal(ctx, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %d updated\n", g.ID)
			return nil
		})
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.DeleteGoal(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %d deleted\n", id)
			return nil
		})
	},
}

var goalAchieveCmd = &cobra.Command{
	Use:   "achieve <goal-id>",
	Short: "Mark a goal achieved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.MarkGoalAchieved(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %d achieved\n", id)
			return nil
		})
	},
}

var goalRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute goal progress from logged sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			updated, err := db.RefreshGoalsFromHistory(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d goal(s)\n", updated)
			return nil
		})
	},
}

var goalAlmostCmd = &cobra.Command{
	Use:   "almost",
	Short: "Goals within two sets of completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			goals, err := db.AlmostThereGoals(ctx)
			if err != nil {
				return err
			}
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "Goal %d (%s): %d set(s) to go\n",
					g.ID, g.TargetDescription(), g.RemainingSets())
			}
			return nil
		})
	},
}

var goalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Goal achievement summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			s, err := db.GoalStatistics(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:\t%d\n", s.Total)
			fmt.Fprintf(out, "Achieved:\t%d\n", s.Achieved)
			fmt.Fprintf(out, "Active:\t%d\n", s.Active)
			fmt.Fprintf(out, "Rate:\t%.1f%%\n", s.AchievementRate)
			return nil
		})
	},
}

func printGoals(cmd *cobra.Command, goals []models.Goal) {
	fmt.Fprintln(cmd.OutOrStdout(), "ID\tEXERCISE\tTARGET\tMONTH\tPROGRESS\tDONE")
	for _, g := range goals {
		done := ""
		if g.IsAchieved() {
			done = "yes"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\t%s\t%d%%\t%s\n",
			g.ID, g.ExerciseID, g.TargetDescription(), g.TargetMonth, g.ProgressPercent(), done)
	}
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalUpdateCmd, goalDeleteCmd,
		goalAchieveCmd, goalRefreshCmd, goalAlmostCmd, goalStatsCmd)

	for _, c := range []*cobra.Command{goalAddCmd, goalUpdateCmd} {
		c.Flags().Int64Var(&goalExercise, "exercise", 0, "Exercise ID")
		c.Flags().Float64Var(&goalWeight, "weight", 0, "Target weight in kg")
		c.Flags().IntVar(&goalReps, "reps", 0, "Target reps per set (default 8)")
		c.Flags().IntVar(&goalSets, "sets", 0, "Target set count (default 3)")
		c.Flags().StringVar(&goalMonth, "month", "", "Target month YYYY-MM")
		c.Flags().StringVar(&goalNotes, "notes", "", "Free-form notes")
	}
	goalAddCmd.Flags().BoolVar(&goalLegacy, "weight-only", false, "Track a plain weight threshold instead of weight x reps x sets")

	goalListCmd.Flags().StringVar(&goalListMonth, "month", "", "Filter by target month YYYY-MM")
	goalListCmd.Flags().BoolVar(&goalListUnachieved, "active", false, "Only unachieved goals")
}
