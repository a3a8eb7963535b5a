package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meltforce/ironlog/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore the database",
}

var backupDir string

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a checksummed snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := backupDir
		if dir == "" {
			dir = cfg.Backup.Dir
		}
		return withDB(func(ctx context.Context, db *storage.DB) error {
			info, err := db.Backup(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s (%d bytes, sha256 %s)\n",
				info.Path, info.SizeBytes, info.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := backupDir
		if dir == "" {
			dir = cfg.Backup.Dir
		}
		backups, err := storage.ListBackups(dir)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "CREATED\tSIZE\tPATH")
		for _, b := range backups {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n",
				b.CreatedAt.Format("2006-01-02 15:04:05"), b.SizeBytes, b.Path)
		}
		return nil
	},
}

var (
	restoreFile  string
	restoreForce bool
)

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the database with a backup after verifying its checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		if err := storage.RestoreBackup(restoreFile, cfg.Database.Path, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s to %s\n", restoreFile, cfg.Database.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default from config)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup file to restore")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite an existing database")
}
