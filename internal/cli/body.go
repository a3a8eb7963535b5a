package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/validate"
)

var bodyCmd = &cobra.Command{
	Use:   "body",
	Short: "Record and review body measurements",
}

var (
	bodyDate   string
	bodyWeight float64
	bodyFat    float64
	bodyMuscle float64
)

var bodyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a body measurement (merges with an existing entry on the same date)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := bodyDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if err := validate.Date(date); err != nil {
			return err
		}
		s := models.BodyStats{
			Date:              date,
			Weight:            optionalFloat(bodyWeight),
			BodyFatPercentage: optionalFloat(bodyFat),
			MuscleMass:        optionalFloat(bodyMuscle),
		}
		if s.Weight == nil && s.BodyFatPercentage == nil && s.MuscleMass == nil {
			return fmt.Errorf("at least one of --weight, --fat or --muscle is required")
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			saved, err := db.UpsertBodyStats(ctx, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: weight %s kg, fat %s %%, muscle %s kg\n",
				saved.Date, formatOptional(saved.Weight), formatOptional(saved.BodyFatPercentage), formatOptional(saved.MuscleMass))
			return nil
		})
	},
}

var bodyListLimit int

var bodyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List body measurements, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *storage.DB) error {
			stats, err := db.ListBodyStats(ctx, bodyListLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tWEIGHT\tFAT%\tMUSCLE")
			for _, s := range stats {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					s.Date, formatOptional(s.Weight), formatOptional(s.BodyFatPercentage), formatOptional(s.MuscleMass))
			}
			return nil
		})
	},
}

var bodyDeleteCmd = &cobra.Command{
	Use:   "delete DATE",
	Short: "Delete the measurement for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Date(args[0]); err != nil {
			return err
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			if err := db.DeleteBodyStats(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted measurement for %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(bodyCmd)
	bodyCmd.AddCommand(bodyAddCmd, bodyListCmd, bodyDeleteCmd)

	bodyAddCmd.Flags().StringVar(&bodyDate, "date", "", "Measurement date YYYY-MM-DD (default today)")
	bodyAddCmd.Flags().Float64Var(&bodyWeight, "weight", 0, "Body weight in kg")
	bodyAddCmd.Flags().Float64Var(&bodyFat, "fat", 0, "Body fat percentage")
	bodyAddCmd.Flags().Float64Var(&bodyMuscle, "muscle", 0, "Muscle mass in kg")

	bodyListCmd.Flags().IntVar(&bodyListLimit, "limit", 30, "Maximum entries to show")
}
