// Package db defines the contract for PostgreSQL connection management.
package db

import (
	"context"

	"github.com/gnames/gnaoi/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages a PostgreSQL connection pool. Schema management,
// the PostGIS catalog and the store use Pool() for their own queries.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to ask for confirmation before the schema is recreated.
	HasTables(ctx context.Context) (bool, error)

	// CountRows returns the number of rows in a table.
	CountRows(ctx context.Context, tableName string) (int64, error)

	// DropAllTables drops all tables in the public schema.
	DropAllTables(ctx context.Context) error

	// HasPostGIS reports whether the postgis extension is installed.
	HasPostGIS(ctx context.Context) (bool, error)
}
