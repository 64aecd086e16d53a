package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"pet-care-simulator/internal/adapters/storage/postgres"
	"pet-care-simulator/internal/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run PostgreSQL migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			cmd.Printf("version=%d dirty=%t\n", v, dirty)
			return nil
		}),
	})

	return cmd
}

func withMigrator(fn func(*cobra.Command, *postgres.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Storage.Driver != config.StoragePostgres {
			return oops.Code("CONFIG_INVALID").Errorf("migrations only apply to the postgres storage driver")
		}

		m, err := postgres.NewMigrator(cfg.Storage.DSN)
		if err != nil {
			return err
		}
		err = fn(cmd, m)
		if cerr := m.Close(); err == nil {
			err = cerr
		}
		return err
	}
}
