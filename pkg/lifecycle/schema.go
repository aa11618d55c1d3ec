// Package lifecycle defines contracts of database lifecycle components.
package lifecycle

import (
	"context"

	"github.com/gnames/gnaoi/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and migrations.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create enables PostGIS and creates the initial database schema.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version using GORM AutoMigrate.
	Migrate(ctx context.Context, cfg *config.Config) error
}
