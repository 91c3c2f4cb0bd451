package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds the shared dependencies of the Postgres
// repositories.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names.
type TableNames struct {
	AutomationRules    string
	AutomationRuns     string
	MarketplaceModules string
}

// NewTableNames creates table names with the given prefix (dev_, test_,
// prod_).
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		AutomationRules:    prefix + "automation_rules",
		AutomationRuns:     prefix + "automation_runs",
		MarketplaceModules: prefix + "marketplace_modules",
	}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Supabase's transaction pooler (port 6543, PgBouncer) does not support
// prepared statements. When that port is detected and the caller has not set
// default_query_exec_mode explicitly, the pool is switched to
// QueryExecModeCacheDescribe, which uses the extended protocol without
// server-side prepared statements. Direct connections on port 5432 keep the
// pgx default.
//
// The fmt.Sprintf table-name interpolation used by the repositories is safe
// with prepared statements because the SQL string is built before it reaches
// the server; each prefix gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
