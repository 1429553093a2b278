package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-assistant/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
	Long:  "Apply or revert the embedded PostgreSQL migrations. The SQLite store creates its schema when opened and needs no migrations.",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withMigrator(func(m *db.Migrator) error {
		if err := m.Up(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, "Migrations applied")
		return nil
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: withMigrator(func(m *db.Migrator) error {
		if err := m.Down(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, "Migrations reverted")
		return nil
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	RunE: withMigrator(func(m *db.Migrator) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "version %d (dirty: %t)\n", version, dirty)
		return nil
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(m *db.Migrator) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if cfg.StorageDriver() != "postgres" {
			return fmt.Errorf("migrations apply to postgres only (storage driver is %s)", cfg.StorageDriver())
		}
		m, err := db.NewMigrator(cfg.StorageDSN())
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(m)
	}
}
