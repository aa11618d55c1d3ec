package iocatalog

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostGIS is a tile catalog in the catalog_tiles table of PostgreSQL.
// Footprints are matched with ST_Intersects using the GIST index.
type PostGIS struct {
	pool *pgxpool.Pool
}

// NewPostGIS creates a catalog on top of a connected operator. The
// catalog_tiles table must exist.
func NewPostGIS(ctx context.Context, op db.Operator) (*PostGIS, error) {
	if op == nil || op.Pool() == nil {
		return nil, OpenError("postgres", errors.New("database is not connected"))
	}
	exists, err := op.TableExists(ctx, schema.CatalogTile{}.TableName())
	if err != nil {
		return nil, OpenError("postgres", err)
	}
	if !exists {
		return nil, OpenError("postgres", errors.New("catalog_tiles table does not exist"))
	}
	return &PostGIS{pool: op.Pool()}, nil
}

// builder returns squirrel builder with PostgreSQL placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// tilesQuery builds the catalog query for q.
func tilesQuery(q aoi.TileQuery) (string, []any, error) {
	where := sq.And{
		sq.Expr(
			"ST_Intersects(geom, ST_MakeEnvelope(?, ?, ?, ?, 4326))",
			q.Bound.Min.Lon(), q.Bound.Min.Lat(),
			q.Bound.Max.Lon(), q.Bound.Max.Lat(),
		),
		sq.LtOrEq{"cloud_cover": q.MaxCloudCover},
	}
	if !q.Start.IsZero() {
		where = append(where, sq.GtOrEq{"sensed_at": q.Start})
	}
	if !q.End.IsZero() {
		where = append(where, sq.LtOrEq{"sensed_at": q.End})
	}

	return builder().
		Select("id", "sensed_at", "cloud_cover", "metadata", "wkb").
		From(schema.CatalogTile{}.TableName()).
		Where(where).
		OrderBy("id").
		ToSql()
}

// Tiles implements aoi.Catalog. Results are sorted by ID.
func (p *PostGIS) Tiles(ctx context.Context, q aoi.TileQuery) ([]aoi.CatalogTile, error) {
	query, args, err := tilesQuery(q)
	if err != nil {
		return nil, QueryError("postgres", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, QueryError("postgres", err)
	}
	defer rows.Close()

	var res []aoi.CatalogTile
	for rows.Next() {
		var row schema.CatalogTile
		err = rows.Scan(&row.ID, &row.SensedAt, &row.CloudCover, &row.Metadata, &row.WKB)
		if err != nil {
			return nil, QueryError("postgres", err)
		}
		res = append(res, decodeTile("postgres", row))
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError("postgres", err)
	}
	return res, nil
}

// Close implements aoi.Catalog. The pool belongs to the operator and
// stays open.
func (p *PostGIS) Close() error { return nil }
