// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality and adds PostGIS
// geometry columns.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnaoi/internal/iodb"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/lifecycle"
	"github.com/gnames/gnaoi/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create enables PostGIS, creates tables with GORM AutoMigrate
// and adds generated geometry columns with spatial indexes.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.enablePostGIS(ctx); err != nil {
		return err
	}

	gormDB, err := iodb.GORM(m.operator)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.addSpatialColumns(ctx); err != nil {
		return err
	}
	slog.Info("Database schema created", "database", cfg.Database.Database)
	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := iodb.GORM(m.operator)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	if err := m.addSpatialColumns(ctx); err != nil {
		return err
	}
	slog.Info("Database schema migrated", "database", cfg.Database.Database)
	return nil
}

func (m *manager) enablePostGIS(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return iodb.NotConnectedError()
	}
	if _, err := pool.Exec(ctx, createExtensionSQL("postgis")); err != nil {
		return ExtensionError("postgis", err)
	}
	return nil
}

// addSpatialColumns adds generated PostGIS columns computed from WKB
// to every spatial table.
func (m *manager) addSpatialColumns(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return iodb.NotConnectedError()
	}

	for _, t := range schema.SpatialTables() {
		for _, q := range schema.SpatialDDL(t) {
			if _, err := pool.Exec(ctx, q); err != nil {
				return SpatialColumnError(t.TableName(), err)
			}
		}
	}
	return nil
}
