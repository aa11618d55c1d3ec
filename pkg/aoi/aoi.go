// Package aoi contains the data model shared by ingestion, tile
// selection and boundary hierarchy building, together with the
// contracts implemented by impure internal/io* packages.
package aoi

import (
	"errors"
	"time"

	"github.com/gnames/gn"
	"github.com/paulmach/orb"
)

// AOI is an area of interest ingested from a user upload.
// Geometry is always a MultiPolygon in WGS84.
type AOI struct {
	// ID is a UUIDv5 derived from the source file, ordinal and name.
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Source is the file name the AOI was read from.
	Source string `json:"source"`

	// Ordinal is the 1-based position of the feature in its source.
	Ordinal int `json:"ordinal"`

	Geometry orb.MultiPolygon `json:"-"`

	// AreaKm2 is the cached equal-area area of Geometry.
	AreaKm2 float64 `json:"areaKm2"`

	IsValid          bool     `json:"isValid"`
	ValidationErrors []string `json:"validationErrors,omitempty"`

	Attributes map[string]string `json:"attributes,omitempty"`
}

// CatalogTile is a satellite tile from a provider catalog.
// Tiles are read-only for the engine.
type CatalogTile struct {
	ID         string           `json:"id"`
	Bounds     orb.MultiPolygon `json:"-"`
	SensedAt   time.Time        `json:"sensedAt"`
	CloudCover float64          `json:"cloudCover"`
	Metadata   map[string]any   `json:"metadata,omitempty"`

	// Err is set when a catalog could not decode the tile. Such tiles
	// have no Bounds and are excluded during scoring.
	Err error `json:"-"`
}

// Diagnostic describes an item that was skipped or failed during
// a batch operation. Diagnostics never abort a batch.
type Diagnostic struct {
	Ordinal int          `json:"ordinal,omitempty"`
	Name    string       `json:"name,omitempty"`
	Code    gn.ErrorCode `json:"code"`
	Message string       `json:"message"`
}

// NewDiagnostic converts an error to a Diagnostic. Code is taken
// from *gn.Error if possible.
func NewDiagnostic(ord int, name string, err error) Diagnostic {
	res := Diagnostic{Ordinal: ord, Name: name, Message: err.Error()}
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		res.Code = gnErr.Code
	}
	return res
}
