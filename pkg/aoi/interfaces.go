package aoi

import (
	"context"
	"io"
	"time"

	"github.com/paulmach/orb"
)

// Entry is one ingested record with its per-record diagnostics.
type Entry struct {
	AOI         AOI          `json:"aoi"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// IngestResult is the outcome of ingesting one upload.
type IngestResult struct {
	Source string `json:"source"`

	// Entries contain every polygonal record, valid or not.
	Entries []Entry `json:"entries"`

	// Skipped lists records or files that did not produce an entry
	// (unsupported geometry types, broken sidecars, etc).
	Skipped []Diagnostic `json:"skipped,omitempty"`

	// Warnings are non-fatal remarks about sources, like a projected
	// coordinate system in a .prj file.
	Warnings []string `json:"warnings,omitempty"`
}

// Valid returns AOIs that passed validation.
func (r *IngestResult) Valid() []AOI {
	var res []AOI
	for _, v := range r.Entries {
		if v.AOI.IsValid {
			res = append(res, v.AOI)
		}
	}
	return res
}

// Ingester turns uploads into AOIs and boundary sets.
type Ingester interface {
	// Ingest reads an archive or a GeoJSON document and returns
	// normalized AOIs.
	Ingest(ctx context.Context, r io.Reader, name string) (*IngestResult, error)

	// Boundaries reads an archive or a GeoJSON document as a flat
	// set of administrative boundaries.
	Boundaries(
		ctx context.Context,
		r io.Reader,
		name, setName string,
	) (*BoundarySet, []Diagnostic, error)
}

// TileQuery filters catalog tiles.
type TileQuery struct {
	// Bound is a bounding box that tiles have to intersect.
	Bound         orb.Bound
	Start, End    time.Time
	MaxCloudCover float64
}

// Catalog provides satellite tiles.
type Catalog interface {
	// Tiles returns tiles whose bounds intersect the query box,
	// sensed within the date range and not cloudier than allowed.
	Tiles(ctx context.Context, q TileQuery) ([]CatalogTile, error)

	// Close releases resources of the catalog.
	Close() error
}

// ScoredTile is a catalog tile with its selection scores.
// All scores are in [0, 100].
type ScoredTile struct {
	Tile CatalogTile `json:"tile"`

	// Coverage is the fraction of the AOI covered by the tile.
	// It is absent for AOIs of zero area.
	Coverage *float64 `json:"coverage,omitempty"`

	// IntersectionKm2 is the area of the AOI/tile intersection.
	IntersectionKm2 float64 `json:"intersectionKm2"`

	CoverageScore float64 `json:"coverageScore"`
	CloudScore    float64 `json:"cloudScore"`
	RecencyScore  float64 `json:"recencyScore"`
	Score         float64 `json:"score"`
}

// SelectionResult is a ranked, bounded set of tiles for an AOI.
type SelectionResult struct {
	AOIID string `json:"aoiId"`

	Tiles []ScoredTile `json:"tiles"`

	// CumulativeCoverage is the sum of coverage scores of the selected
	// tiles. Overlaps between tiles are not deduplicated.
	CumulativeCoverage float64 `json:"cumulativeCoverage"`

	// Considered is the number of candidates returned by the catalog.
	Considered int `json:"considered"`

	// Rejected counts candidates excluded before ranking by reason.
	Rejected map[string]int `json:"rejected,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Store persists ingestion results.
type Store interface {
	SaveAOIs(ctx context.Context, aois []AOI) error
	SaveBoundarySet(ctx context.Context, bs *BoundarySet) error
	SaveTiles(ctx context.Context, tiles []CatalogTile) error
}
