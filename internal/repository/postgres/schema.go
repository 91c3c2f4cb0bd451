package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the automation and marketplace tables if they do not
// exist yet. The seed command calls this on startup; the server assumes the
// tables are already in place.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				company_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				trigger_type TEXT NOT NULL,
				trigger_config JSONB,
				schedule TEXT NOT NULL DEFAULT '',
				actions JSONB,
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				run_count INTEGER NOT NULL DEFAULT 0,
				last_run_at TIMESTAMPTZ,
				created_by TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.AutomationRules),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_company_idx ON %s (company_id)
		`, tables.AutomationRules, tables.AutomationRules),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				rule_id TEXT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				status TEXT NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				synthetic BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL
			)
		`, tables.AutomationRuns, tables.AutomationRules),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_rule_idx ON %s (rule_id, created_at DESC)
		`, tables.AutomationRuns, tables.AutomationRuns),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL,
				version TEXT NOT NULL,
				author TEXT NOT NULL DEFAULT '',
				price NUMERIC(10,2) NOT NULL DEFAULT 0,
				installs INTEGER NOT NULL DEFAULT 0,
				published BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.MarketplaceModules),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
