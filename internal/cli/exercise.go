package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/storage"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Browse and extend the exercise catalogue",
}

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			exercises, err := db.ListExercises(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tVARIATION\tCATEGORY")
			for _, e := range exercises {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Variation, e.Category)
			}
			return nil
		})
	},
}

var (
	exerciseName      string
	exerciseVariation string
	exerciseCategory  string
)

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exerciseName == "" {
			return fmt.Errorf("--name is required")
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			e, err := db.GetOrCreateExercise(ctx, exerciseName, exerciseVariation, exerciseCategory)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exercise %d: %s\n", e.ID, e.DisplayName())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseListCmd, exerciseAddCmd)

	exerciseAddCmd.Flags().StringVar(&exerciseName, "name", "", "Exercise name")
	exerciseAddCmd.Flags().StringVar(&exerciseVariation, "variation", "", "Variation (barbell, dumbbell, ...)")
	exerciseAddCmd.Flags().StringVar(&exerciseCategory, "category", "", "Category (chest, back, legs, ...)")
}
