package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/config"
	"github.com/psds-microservice/helpdesk-cli/internal/database"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Local storage maintenance",
	// Хранилище мигрируется отдельно, без сборки всего приложения.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run storage migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	storageCmd.AddCommand(migrateCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Storage.Backend != config.StorageSQLite {
		return errors.New("migrate: HELPDESK_STORAGE is not sqlite, nothing to migrate")
	}
	db, err := database.Open(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	before, after, err := database.MigrateUp(db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrate up: ok (version %d -> %d)\n", before, after)
	return nil
}
