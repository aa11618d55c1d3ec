// Package geom contains pure geometry operations: normalization of
// polygonal geometries, validation, equal-area measurement and
// AOI/tile coverage.
//
// Planar topology is delegated to GEOS (via go-geos). GEOS reports
// failures by panicking, such panics are recovered here and turned into
// errors, so callers can skip a bad item and continue a batch.
package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geos"
)

// DefaultMaxAreaKm2 is the default area ceiling of an AOI.
const DefaultMaxAreaKm2 = 10_000.0

// Normalize converts a geometry to MultiPolygon. Polygons are wrapped,
// any other type returns UnsupportedGeometryTypeError.
func Normalize(g orb.Geometry) (orb.MultiPolygon, error) {
	switch v := g.(type) {
	case nil:
		return nil, EmptyGeometryError()
	case orb.Polygon:
		return orb.MultiPolygon{v}, nil
	case orb.MultiPolygon:
		return v, nil
	default:
		return nil, UnsupportedGeometryTypeError(g.GeoJSONType())
	}
}

// AreaKm2 returns area of a MultiPolygon in square kilometers.
// The area is computed on a sphere with the WGS84 equatorial radius,
// which is equal to the area in Lambert azimuthal equal-area projection
// of that sphere. Holes are subtracted.
func AreaKm2(mp orb.MultiPolygon) float64 {
	if len(mp) == 0 {
		return 0
	}
	return math.Abs(geo.Area(mp)) / 1e6
}

// Centroid returns the planar centroid of a MultiPolygon.
func Centroid(mp orb.MultiPolygon) orb.Point {
	if len(mp) == 0 {
		return orb.Point{}
	}
	p, _ := planar.CentroidArea(mp)
	return p
}

// toGEOS converts an orb geometry to a GEOS geometry via WKB.
func toGEOS(gctx *geos.Context, g orb.Geometry) (res *geos.Geom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geos: %v", r)
		}
	}()
	bs, err := wkb.Marshal(g)
	if err != nil {
		return nil, err
	}
	return gctx.NewGeomFromWKB(bs)
}

// fromGEOS converts a GEOS geometry back to orb, keeping only polygonal
// parts.
func fromGEOS(g *geos.Geom) (orb.MultiPolygon, error) {
	if g == nil || g.IsEmpty() {
		return nil, nil
	}
	og, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, err
	}
	return polygonal(og), nil
}

func polygonal(g orb.Geometry) orb.MultiPolygon {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}
	case orb.MultiPolygon:
		return v
	case orb.Collection:
		var res orb.MultiPolygon
		for _, c := range v {
			res = append(res, polygonal(c)...)
		}
		return res
	default:
		return nil
	}
}
