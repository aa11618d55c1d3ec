package schema

import (
	"strconv"

	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/gnames/gnuuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// NewAOI converts an AOI to its database model.
func NewAOI(a aoi.AOI) (AOI, error) {
	bs, err := wkb.Marshal(a.Geometry)
	if err != nil {
		return AOI{}, err
	}
	return AOI{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		Source:           a.Source,
		Ordinal:          a.Ordinal,
		AreaKm2:          a.AreaKm2,
		IsValid:          a.IsValid,
		ValidationErrors: a.ValidationErrors,
		Attributes:       a.Attributes,
		WKB:              bs,
	}, nil
}

// BoundaryID returns a stable ID of a boundary at position pos of a set.
func BoundaryID(setID string, pos int) string {
	return gnuuid.New(setID + "|" + strconv.Itoa(pos)).String()
}

// NewBoundarySet converts a boundary set and its boundaries to database
// models. Parent indices become parent IDs.
func NewBoundarySet(bs *aoi.BoundarySet) (BoundarySet, []Boundary, error) {
	set := BoundarySet{
		ID:      bs.ID,
		Name:    bs.Name,
		Source:  bs.Source,
		Level:   bs.Level.String(),
		Columns: bs.Columns,
		Total:   len(bs.Boundaries),
	}

	res := make([]Boundary, len(bs.Boundaries))
	for i, b := range bs.Boundaries {
		g, err := wkb.Marshal(b.Geometry)
		if err != nil {
			return set, nil, err
		}
		res[i] = Boundary{
			ID:         BoundaryID(bs.ID, i),
			SetID:      bs.ID,
			Position:   i,
			Level:      b.Level.String(),
			Name:       b.Name,
			Name0:      b.Names[aoi.Country],
			Name1:      b.Names[aoi.Province],
			Name2:      b.Names[aoi.District],
			Name3:      b.Names[aoi.Ward],
			Attributes: b.Attributes,
			WKB:        g,
		}
		if b.Parent != nil {
			id := BoundaryID(bs.ID, *b.Parent)
			res[i].ParentID = &id
			set.Linked++
		}
	}
	return set, res, nil
}

// NewCatalogTile converts a catalog tile to its database model.
func NewCatalogTile(t aoi.CatalogTile) (CatalogTile, error) {
	bs, err := wkb.Marshal(t.Bounds)
	if err != nil {
		return CatalogTile{}, err
	}
	b := t.Bounds.Bound()
	return CatalogTile{
		ID:         t.ID,
		SensedAt:   t.SensedAt.UTC(),
		CloudCover: t.CloudCover,
		Metadata:   t.Metadata,
		MinLon:     b.Min.Lon(),
		MinLat:     b.Min.Lat(),
		MaxLon:     b.Max.Lon(),
		MaxLat:     b.Max.Lat(),
		WKB:        bs,
	}, nil
}

// Tile converts the model back to a catalog tile.
func (t CatalogTile) Tile() (aoi.CatalogTile, error) {
	bounds, err := DecodeWKB(t.WKB)
	if err != nil {
		return aoi.CatalogTile{}, err
	}
	return aoi.CatalogTile{
		ID:         t.ID,
		Bounds:     bounds,
		SensedAt:   t.SensedAt.UTC(),
		CloudCover: t.CloudCover,
		Metadata:   t.Metadata,
	}, nil
}

// DecodeWKB reads a Polygon or MultiPolygon from well-known binary.
func DecodeWKB(bs []byte) (orb.MultiPolygon, error) {
	g, err := wkb.Unmarshal(bs)
	if err != nil {
		return nil, err
	}
	return geom.Normalize(g)
}
