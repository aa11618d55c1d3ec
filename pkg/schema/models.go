// Package schema provides database models for GNaoi. Models are created
// by GORM AutoMigrate, geometry columns are added by SpatialDDL.
//
// Geometries are kept as WKB in the `wkb` column. On PostgreSQL a
// generated PostGIS `geom` column with a GIST index is derived from it.
package schema

import (
	"time"
)

// SRID of all stored geometries (WGS84).
const SRID = 4326

// SpatialTable is a model with a WKB column that gets a PostGIS
// geometry column.
type SpatialTable interface {
	// TableName returns the PostgreSQL table name for this model.
	TableName() string

	// GeometryType is the PostGIS type of the generated column.
	GeometryType() string
}

// AOI is an ingested area of interest.
type AOI struct {
	// ID is UUID v5 generated from upload name, file, ordinal and name.
	ID string `gorm:"primaryKey;type:uuid"`

	Name        string `gorm:"type:varchar(255);not null;index"`
	Description string `gorm:"type:text"`

	// Source is the file inside of an upload the AOI came from.
	Source string `gorm:"type:varchar(255)"`

	// Ordinal is the 1-based position of the feature in the source.
	Ordinal int

	AreaKm2 float64 `gorm:"column:area_km2"`
	IsValid bool    `gorm:"not null;default:false"`

	// ValidationErrors keeps messages of failed checks.
	ValidationErrors []string `gorm:"type:jsonb;serializer:json"`

	Attributes map[string]string `gorm:"type:jsonb;serializer:json"`

	// WKB is the MultiPolygon geometry in well-known binary.
	WKB []byte `gorm:"column:wkb;type:bytea"`

	CreatedAt time.Time
}

// TableName implements SpatialTable.
func (AOI) TableName() string { return "aois" }

// GeometryType implements SpatialTable.
func (AOI) GeometryType() string { return "MultiPolygon" }

// BoundarySet is a named collection of administrative boundaries.
type BoundarySet struct {
	// ID is a random UUID assigned on import.
	ID     string `gorm:"primaryKey;type:uuid"`
	Name   string `gorm:"type:varchar(255);not null"`
	Source string `gorm:"type:varchar(255)"`

	// Level is the level detected from attribute columns.
	Level string `gorm:"type:varchar(20)"`

	Columns []string `gorm:"type:jsonb;serializer:json"`

	// Total is the number of boundaries in the set.
	Total int

	// Linked is the number of boundaries with a parent.
	Linked int

	CreatedAt time.Time
}

// TableName returns the table name.
func (BoundarySet) TableName() string { return "boundary_sets" }

// Boundary is an administrative area.
type Boundary struct {
	// ID is UUID v5 generated from the set ID and Position.
	ID string `gorm:"primaryKey;type:uuid"`

	SetID string `gorm:"type:uuid;not null;index"`

	// Position is the index of the boundary inside of its set.
	Position int `gorm:"not null"`

	Level string `gorm:"type:varchar(20);not null;index"`
	Name  string `gorm:"type:varchar(255);not null"`

	// Name0..Name3 are country, province, district and ward names.
	Name0 string `gorm:"column:name_0;type:varchar(255)"`
	Name1 string `gorm:"column:name_1;type:varchar(255)"`
	Name2 string `gorm:"column:name_2;type:varchar(255)"`
	Name3 string `gorm:"column:name_3;type:varchar(255)"`

	// ParentID references a boundary one level up in the same set.
	ParentID *string `gorm:"type:uuid;index"`

	Attributes map[string]string `gorm:"type:jsonb;serializer:json"`

	WKB []byte `gorm:"column:wkb;type:bytea"`
}

// TableName implements SpatialTable.
func (Boundary) TableName() string { return "boundaries" }

// GeometryType implements SpatialTable.
func (Boundary) GeometryType() string { return "MultiPolygon" }

// CatalogTile is a satellite tile of a provider catalog.
type CatalogTile struct {
	ID         string    `gorm:"primaryKey;type:varchar(255)"`
	SensedAt   time.Time `gorm:"not null;index"`
	CloudCover float64   `gorm:"not null"`

	Metadata map[string]any `gorm:"type:jsonb;serializer:json"`

	// Bounding box of the footprint, used by catalogs without PostGIS.
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64

	WKB []byte `gorm:"column:wkb;type:bytea"`
}

// TableName implements SpatialTable.
func (CatalogTile) TableName() string { return "catalog_tiles" }

// GeometryType implements SpatialTable.
func (CatalogTile) GeometryType() string { return "MultiPolygon" }
