package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&AOI{},
		&BoundarySet{},
		&Boundary{},
		&CatalogTile{},
	}
}

// TableNames returns names of all schema tables in the order of
// AllModels.
func TableNames() []string {
	models := AllModels()
	res := make([]string, 0, len(models))
	for _, m := range models {
		if t, ok := m.(interface{ TableName() string }); ok {
			res = append(res, t.TableName())
		}
	}
	return res
}

// SpatialTables returns models that get a PostGIS geometry column.
func SpatialTables() []SpatialTable {
	return []SpatialTable{
		AOI{},
		Boundary{},
		CatalogTile{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
