package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/derive"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

var bodygoalCmd = &cobra.Command{
	Use:   "bodygoal",
	Short: "Manage body composition goals",
}

var (
	bodyGoalName         string
	bodyGoalTargetWeight float64
	bodyGoalTargetMuscle float64
	bodyGoalTargetFat    float64
	bodyGoalTargetBMI    float64
	bodyGoalDate         string
	bodyGoalNotes        string
)

var bodygoalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a body composition goal (baseline is captured from the latest measurement)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bodyGoalName == "" {
			return fmt.Errorf("--name is required")
		}
		if bodyGoalDate != "" {
			if err := validate.Date(bodyGoalDate); err != nil {
				return err
			}
		}
		g := models.BodyCompositionGoal{
			Name:             bodyGoalName,
			TargetWeight:     optionalFloat(bodyGoalTargetWeight),
			TargetMuscleMass: optionalFloat(bodyGoalTargetMuscle),
			TargetBodyFat:    optionalFloat(bodyGoalTargetFat),
			TargetBMI:        optionalFloat(bodyGoalTargetBMI),
			TargetDate:       bodyGoalDate,
			Notes:            bodyGoalNotes,
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			saved, err := db.AddBodyGoal(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Body goal %d: %s\n", saved.ID, saved.Name)
			if saved.BaselineWeight == nil && saved.BaselineMuscleMass == nil &&
				saved.BaselineBodyFat == nil && saved.BaselineBMI == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No body measurements yet: progress will be unavailable until a baseline exists")
			}
			return nil
		})
	},
}

var bodygoalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List body composition goals with progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.RefreshBodyGoals(ctx); err != nil {
				return err
			}
			goals, err := db.ListBodyGoals(ctx)
			if err != nil {
				return err
			}
			today := time.Now().Format("2006-01-02")
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tTARGET DATE\tPROGRESS\tSTATUS")
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
					g.ID, g.Name, g.TargetDate, formatBodyProgress(g), bodyGoalStatus(g, today))
			}
			return nil
		})
	},
}

var bodygoalShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one body goal with per-dimension progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("body goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.RefreshBodyGoals(ctx); err != nil {
				return err
			}
			g, err := db.GetBodyGoal(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (target date %s)\n", g.Name, g.TargetDate)
			printDimension(out, "Weight", g.BaselineWeight, g.CurrentWeight, g.TargetWeight, derive.WeightProgress, g)
			printDimension(out, "Muscle", g.BaselineMuscleMass, g.CurrentMuscleMass, g.TargetMuscleMass, derive.MuscleProgress, g)
			printDimension(out, "Body fat", g.BaselineBodyFat, g.CurrentBodyFat, g.TargetBodyFat, derive.BodyFatProgress, g)
			printDimension(out, "BMI", g.BaselineBMI, g.CurrentBMI, g.TargetBMI, derive.BMIProgress, g)
			fmt.Fprintf(out, "Overall: %s\n", formatBodyProgress(g))
			if g.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", g.Notes)
			}
			return nil
		})
	},
}

var bodygoalUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a body goal's targets (baselines are never touched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("body goal id", args[0])
		if err != nil {
			return err
		}
		if bodyGoalDate != "" {
			if err := validate.Date(bodyGoalDate); err != nil {
				return err
			}
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			g, err := db.GetBodyGoal(ctx, id)
			if err != nil {
				return err
			}
			if bodyGoalName != "" {
				g.Name = bodyGoalName
			}
			if v := optionalFloat(bodyGoalTargetWeight); v != nil {
				g.TargetWeight = v
			}
			if v := optionalFloat(bodyGoalTargetMuscle); v != nil {
				g.TargetMuscleMass = v
			}
			if v := optionalFloat(bodyGoalTargetFat); v != nil {
				g.TargetBodyFat = v
			}
			if v := optionalFloat(bodyGoalTargetBMI); v != nil {
				g.TargetBMI = v
			}
			if bodyGoalDate != "" {
				g.TargetDate = bodyGoalDate
			}
			if bodyGoalNotes != "" {
				g.Notes = bodyGoalNotes
			}
			if err := db.UpdateBodyGoal(ctx, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Body goal %d updated\n", g.ID)
			return nil
		})
	},
}

var bodygoalAchieveCmd = &cobra.Command{
	Use:   "achieve ID",
	Short: "Mark a body goal achieved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("body goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.MarkBodyGoalAchieved(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Body goal %d marked achieved\n", id)
			return nil
		})
	},
}

var bodygoalDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a body goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("body goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.DeleteBodyGoal(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Body goal %d deleted\n", id)
			return nil
		})
	},
}

var bodygoalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize body goal outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			s, err := db.BodyGoalStatistics(ctx, time.Now().Format("2006-01-02"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:\t%d\n", s.Total)
			fmt.Fprintf(out, "Achieved:\t%d\n", s.Achieved)
			fmt.Fprintf(out, "Active:\t%d\n", s.Active)
			fmt.Fprintf(out, "Overdue:\t%d\n", s.Overdue)
			fmt.Fprintf(out, "Achievement rate:\t%.1f%%\n", s.AchievementRate)
			return nil
		})
	},
}

func bodyGoalStatus(g models.BodyCompositionGoal, today string) string {
	switch {
	case g.Achieved:
		return "achieved"
	case g.Overdue(today):
		return "overdue"
	default:
		return "active"
	}
}

func formatBodyProgress(g models.BodyCompositionGoal) string {
	p, err := derive.OverallProgress(g)
	if errors.Is(err, derive.ErrNoBaseline) {
		return "no baseline"
	}
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", p)
}

func printDimension(out io.Writer, label string, baseline, current, target *float64, progress func(models.BodyCompositionGoal) (int, error), g models.BodyCompositionGoal) {
	if target == nil {
		return
	}
	p, err := progress(g)
	status := fmt.Sprintf("%d%%", p)
	if errors.Is(err, derive.ErrNoBaseline) {
		status = "no baseline"
	} else if err != nil {
		status = "-"
	}
	fmt.Fprintf(out, "%s:\t%s -> %s (target %s)\t%s\n",
		label, formatOptional(baseline), formatOptional(current), formatOptional(target), status)
}

func init() {
	rootCmd.AddCommand(bodygoalCmd)
	bodygoalCmd.AddCommand(bodygoalAddCmd, bodygoalListCmd, bodygoalShowCmd,
		bodygoalUpdateCmd, bodygoalAchieveCmd, bodygoalDeleteCmd, bodygoalStatsCmd)

	for _, c := range []*cobra.Command{bodygoalAddCmd, bodygoalUpdateCmd} {
		c.Flags().StringVar(&bodyGoalName, "name", "", "Goal name")
		c.Flags().Float64Var(&bodyGoalTargetWeight, "target-weight", 0, "Target body weight in kg")
		c.Flags().Float64Var(&bodyGoalTargetMuscle, "target-muscle", 0, "Target muscle mass in kg")
		c.Flags().Float64Var(&bodyGoalTargetFat, "target-fat", 0, "Target body fat percentage")
		c.Flags().Float64Var(&bodyGoalTargetBMI, "target-bmi", 0, "Target BMI")
		c.Flags().StringVar(&bodyGoalDate, "date", "", "Target date YYYY-MM-DD")
		c.Flags().StringVar(&bodyGoalNotes, "notes", "", "Free-form notes")
	}
}
