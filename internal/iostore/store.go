// Package iostore persists AOIs, boundary sets and catalog tiles in
// PostgreSQL with GORM.
package iostore

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnaoi/internal/iodb"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	gdb       *gorm.DB
	batchSize int
}

// New creates a Store on top of a connected operator.
func New(op db.Operator, batchSize int) (aoi.Store, error) {
	gdb, err := iodb.GORM(op)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = 1_000
	}
	return &store{gdb: gdb, batchSize: batchSize}, nil
}

// upsert replaces rows with the same primary key.
var upsert = clause.OnConflict{UpdateAll: true}

// SaveAOIs implements aoi.Store.
func (s *store) SaveAOIs(ctx context.Context, aois []aoi.AOI) error {
	if len(aois) == 0 {
		return nil
	}
	rows := make([]schema.AOI, len(aois))
	for i := range aois {
		row, err := schema.NewAOI(aois[i])
		if err != nil {
			return SaveError(schema.AOI{}.TableName(), err)
		}
		rows[i] = row
	}

	err := s.gdb.WithContext(ctx).Clauses(upsert).
		CreateInBatches(rows, s.batchSize).Error
	if err != nil {
		return SaveError(schema.AOI{}.TableName(), err)
	}
	slog.Info("AOIs saved", "count", humanize.Comma(int64(len(rows))))
	return nil
}

// SaveBoundarySet implements aoi.Store. The set and its boundaries are
// written in one transaction, previous boundaries of the set are
// replaced.
func (s *store) SaveBoundarySet(ctx context.Context, bs *aoi.BoundarySet) error {
	set, rows, err := schema.NewBoundarySet(bs)
	if err != nil {
		return SaveError(schema.Boundary{}.TableName(), err)
	}

	err = s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(upsert).Create(&set).Error; err != nil {
			return SaveError(set.TableName(), err)
		}
		err := tx.Where("set_id = ?", set.ID).Delete(&schema.Boundary{}).Error
		if err != nil {
			return SaveError(schema.Boundary{}.TableName(), err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, s.batchSize).Error; err != nil {
			return SaveError(schema.Boundary{}.TableName(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Boundary set saved",
		"set", set.Name,
		"boundaries", humanize.Comma(int64(set.Total)),
		"linked", set.Linked,
	)
	return nil
}

// SaveTiles implements aoi.Store.
func (s *store) SaveTiles(ctx context.Context, tiles []aoi.CatalogTile) error {
	if len(tiles) == 0 {
		return nil
	}
	rows := make([]schema.CatalogTile, len(tiles))
	for i := range tiles {
		row, err := schema.NewCatalogTile(tiles[i])
		if err != nil {
			return SaveError(schema.CatalogTile{}.TableName(), err)
		}
		rows[i] = row
	}

	err := s.gdb.WithContext(ctx).Clauses(upsert).
		CreateInBatches(rows, s.batchSize).Error
	if err != nil {
		return SaveError(schema.CatalogTile{}.TableName(), err)
	}
	slog.Info("Catalog tiles saved", "count", humanize.Comma(int64(len(rows))))
	return nil
}
