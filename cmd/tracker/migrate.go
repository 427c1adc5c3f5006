package main

import (
	"errors"
	"fmt"

	"timeTracker/internal/config"
	"timeTracker/internal/repository/item/postgres"

	"github.com/spf13/cobra"
)

var errNotPostgres = errors.New("migrate требует repository.type=postgres")

func newMigrateCmd(opts *options) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := openPostgres(cmd, opts)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := storage.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := openPostgres(cmd, opts)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := storage.Down(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		},
	})

	return migrateCmd
}

func openPostgres(cmd *cobra.Command, opts *options) (*postgres.Storage, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	if cfg.Repository.Type != config.RepositoryPostgres {
		return nil, errNotPostgres
	}
	return postgres.New(cmd.Context(), cfg.Database)
}
