package cli

import (
	"fmt"

	"github.com/mzaikin/daytrack/internal/backup"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the database to the backup directory",
	Long: `Write a timestamped, checksum-verified copy of the database file.

With --if-due, only back up when the newest copy is older than the
configured cadence (backup_max_days).`,
	RunE: runBackup,
}

var backupIfDue bool

func init() {
	backupCmd.Flags().BoolVar(&backupIfDue, "if-due", false, "Skip if a recent backup exists")
}

func runBackup(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	svc := backup.New(app.Cfg.BackupDir)

	if backupIfDue {
		due, err := svc.DueSince(app.Cfg.BackupMaxDays)
		if err != nil {
			return err
		}
		if !due {
			fmt.Printf("Backup not due (newer than %d days), skipping.\n", app.Cfg.BackupMaxDays)
			return nil
		}
	}

	dst, err := svc.Run(app.Store.Path())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Backup written to %s\n", dst)
	return nil
}
