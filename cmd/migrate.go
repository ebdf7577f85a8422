package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fjod/storefront/internal/app"
)

func migrateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create and seed the SQLite catalog database and drop the cached catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Catalog.DBPath
			}
			if dbPath == "" {
				return errors.New("no database path: set --db or CATALOG_DB_PATH")
			}

			return app.Migrate(cmd.Context(), cfg, log, dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite catalog (default $CATALOG_DB_PATH)")
	return cmd
}
