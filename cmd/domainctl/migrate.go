package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"domainflow/internal/platform/postgres"
)

type migrator struct {
	db *sql.DB
}

type migrationOutput struct {
	Version int64 `json:"version"`
}

func (m *migrator) report(cmd *cobra.Command) error {
	v, err := postgres.MigrationVersion(cmd.Context(), m.db)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), migrationOutput{Version: v})
}

// withDB runs fn against Postgres only. Schema commands must work before the
// tenant tables exist, so they skip the module wiring.
func withDB(cmd *cobra.Command, fn func(*migrator) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(&migrator{db: db})
}
