// Package iocatalog provides tile catalogs kept in memory, in a local
// SQLite file or in PostgreSQL with PostGIS.
package iocatalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/schema"
)

// Importer is a catalog that accepts new tiles.
type Importer interface {
	aoi.Catalog

	// Import adds tiles to the catalog, replacing tiles with the same ID.
	Import(ctx context.Context, tiles []aoi.CatalogTile) error
}

// New opens the catalog configured in cfg. The operator is used only by
// the postgres catalog and must be connected.
func New(ctx context.Context, cfg *config.Config, op db.Operator) (aoi.Catalog, error) {
	switch cfg.Catalog.Kind {
	case "memory":
		return NewMemory(), nil
	case "postgres":
		return NewPostGIS(ctx, op)
	case "sqlite", "":
		return OpenSQLite(ctx, cfg.CatalogPath())
	default:
		return nil, OpenError(cfg.Catalog.Kind,
			fmt.Errorf("unknown catalog kind"))
	}
}

// Memory is a catalog kept in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	tiles map[string]aoi.CatalogTile
}

// NewMemory creates an in-memory catalog with given tiles.
func NewMemory(tiles ...aoi.CatalogTile) *Memory {
	res := &Memory{tiles: make(map[string]aoi.CatalogTile)}
	for _, t := range tiles {
		res.tiles[t.ID] = t
	}
	return res
}

// Import implements Importer.
func (m *Memory) Import(_ context.Context, tiles []aoi.CatalogTile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tiles {
		m.tiles[t.ID] = t
	}
	return nil
}

// Tiles implements aoi.Catalog. Results are sorted by ID.
func (m *Memory) Tiles(ctx context.Context, q aoi.TileQuery) ([]aoi.CatalogTile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []aoi.CatalogTile
	for _, t := range m.tiles {
		if Matches(t, q) {
			res = append(res, t)
		}
	}
	slices.SortFunc(res, func(a, b aoi.CatalogTile) int {
		return strings.Compare(a.ID, b.ID)
	})
	return res, nil
}

// Close implements aoi.Catalog.
func (m *Memory) Close() error { return nil }

// Matches reports whether a tile passes the query filters. Zero Start
// or End leave the date range open.
func Matches(t aoi.CatalogTile, q aoi.TileQuery) bool {
	if !q.Start.IsZero() && t.SensedAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && t.SensedAt.After(q.End) {
		return false
	}
	if t.CloudCover > q.MaxCloudCover {
		return false
	}
	return t.Bounds.Bound().Intersects(q.Bound)
}

// decodeTile converts a stored row to a tile. A row that cannot be
// decoded is kept with Err set, so one broken footprint does not fail
// the whole query.
func decodeTile(kind string, row schema.CatalogTile) aoi.CatalogTile {
	res, err := row.Tile()
	if err == nil {
		return res
	}
	return brokenTile(kind, row, err)
}

func brokenTile(kind string, row schema.CatalogTile, err error) aoi.CatalogTile {
	err = TileDecodeError(row.ID, err)
	slog.Warn("Cannot decode catalog tile",
		"catalog", kind, "tile", row.ID, "error", err)
	return aoi.CatalogTile{
		ID:         row.ID,
		SensedAt:   row.SensedAt.UTC(),
		CloudCover: row.CloudCover,
		Err:        err,
	}
}
