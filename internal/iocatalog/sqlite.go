package iocatalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/schema"
	"github.com/gnames/gnfmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

var sqliteTilesDDL = []string{
	`CREATE TABLE IF NOT EXISTS catalog_tiles (
	id TEXT PRIMARY KEY,
	sensed_at INTEGER NOT NULL,
	cloud_cover REAL NOT NULL,
	min_lon REAL NOT NULL,
	min_lat REAL NOT NULL,
	max_lon REAL NOT NULL,
	max_lat REAL NOT NULL,
	wkb BLOB NOT NULL,
	metadata TEXT
)`,
	`CREATE INDEX IF NOT EXISTS catalog_tiles_sensed_at_idx
	ON catalog_tiles (sensed_at)`,
	`CREATE INDEX IF NOT EXISTS catalog_tiles_bbox_idx
	ON catalog_tiles (min_lon, max_lon, min_lat, max_lat)`,
}

var tileColumns = []string{
	"id", "sensed_at", "cloud_cover",
	"min_lon", "min_lat", "max_lon", "max_lat",
	"wkb", "metadata",
}

// SQLite is a tile catalog in a local SQLite file. Footprints are
// prefiltered by their bounding boxes.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a catalog file. The path ":memory:"
// creates a temporary in-memory catalog.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, OpenError("sqlite", err)
		}
	}

	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError("sqlite", err)
	}
	// every connection to :memory: is a separate database
	sdb.SetMaxOpenConns(1)

	for _, ddl := range sqliteTilesDDL {
		if _, err = sdb.ExecContext(ctx, ddl); err != nil {
			sdb.Close()
			return nil, OpenError("sqlite", err)
		}
	}
	return &SQLite{db: sdb}, nil
}

// Import implements Importer.
func (s *SQLite) Import(ctx context.Context, tiles []aoi.CatalogTile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportError("sqlite", err)
	}
	defer tx.Rollback()

	enc := gnfmt.GNjson{}
	for _, t := range tiles {
		row, err := schema.NewCatalogTile(t)
		if err != nil {
			return ImportError(t.ID, err)
		}
		var meta []byte
		if len(row.Metadata) > 0 {
			if meta, err = enc.Encode(row.Metadata); err != nil {
				return ImportError(t.ID, err)
			}
		}

		q, args, err := sq.Insert("catalog_tiles").
			Options("OR REPLACE").
			Columns(tileColumns...).
			Values(
				row.ID, row.SensedAt.Unix(), row.CloudCover,
				row.MinLon, row.MinLat, row.MaxLon, row.MaxLat,
				row.WKB, string(meta),
			).ToSql()
		if err != nil {
			return ImportError(t.ID, err)
		}
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return ImportError(t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return ImportError("sqlite", err)
	}
	return nil
}

// Tiles implements aoi.Catalog. Results are sorted by ID.
func (s *SQLite) Tiles(ctx context.Context, q aoi.TileQuery) ([]aoi.CatalogTile, error) {
	where := sq.And{
		sq.LtOrEq{"min_lon": q.Bound.Max.Lon()},
		sq.GtOrEq{"max_lon": q.Bound.Min.Lon()},
		sq.LtOrEq{"min_lat": q.Bound.Max.Lat()},
		sq.GtOrEq{"max_lat": q.Bound.Min.Lat()},
		sq.LtOrEq{"cloud_cover": q.MaxCloudCover},
	}
	if !q.Start.IsZero() {
		where = append(where, sq.GtOrEq{"sensed_at": q.Start.Unix()})
	}
	if !q.End.IsZero() {
		where = append(where, sq.LtOrEq{"sensed_at": q.End.Unix()})
	}

	query, args, err := sq.Select(tileColumns...).
		From("catalog_tiles").
		Where(where).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, QueryError("sqlite", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, QueryError("sqlite", err)
	}
	defer rows.Close()

	enc := gnfmt.GNjson{}
	var res []aoi.CatalogTile
	for rows.Next() {
		var row schema.CatalogTile
		var sensed int64
		var meta sql.NullString
		err = rows.Scan(
			&row.ID, &sensed, &row.CloudCover,
			&row.MinLon, &row.MinLat, &row.MaxLon, &row.MaxLat,
			&row.WKB, &meta,
		)
		if err != nil {
			return nil, QueryError("sqlite", err)
		}
		row.SensedAt = time.Unix(sensed, 0).UTC()
		if meta.String != "" {
			if err = enc.Decode([]byte(meta.String), &row.Metadata); err != nil {
				res = append(res, brokenTile("sqlite", row, err))
				continue
			}
		}
		res = append(res, decodeTile("sqlite", row))
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError("sqlite", err)
	}
	return res, nil
}

// Close implements aoi.Catalog.
func (s *SQLite) Close() error {
	return s.db.Close()
}
