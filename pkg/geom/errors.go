package geom

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// UnsupportedGeometryTypeError is returned for geometries that are not
// Polygon or MultiPolygon.
func UnsupportedGeometryTypeError(gType string) error {
	msg := `Geometry type <em>%s</em> is not supported

<em>How to fix:</em>
  Provide Polygon or MultiPolygon geometries`

	return &gn.Error{
		Code: errcode.UnsupportedGeometryTypeError,
		Msg:  msg,
		Vars: []any{gType},
		Err:  fmt.Errorf("unsupported geometry type: %s", gType),
	}
}

// EmptyGeometryError is returned for null or empty geometries.
func EmptyGeometryError() error {
	msg := "Geometry is empty"

	return &gn.Error{
		Code: errcode.InvalidGeometryError,
		Msg:  msg,
		Err:  fmt.Errorf("empty geometry"),
	}
}

// InvalidGeometryError is returned for topologically invalid geometries.
func InvalidGeometryError(reason string) error {
	msg := `Geometry is invalid: <em>%s</em>

<em>How to fix:</em>
  1. Close every ring (first and last points must be equal)
  2. Remove self-intersections, for example with 'Fix geometries'
     in QGIS`

	return &gn.Error{
		Code: errcode.InvalidGeometryError,
		Msg:  msg,
		Vars: []any{reason},
		Err:  fmt.Errorf("invalid geometry: %s", reason),
	}
}

// CoordinateOutOfRangeError is returned when a vertex is outside of
// WGS84 bounds.
func CoordinateOutOfRangeError(p [2]float64) error {
	msg := `Coordinate <em>(%v, %v)</em> is out of WGS84 range

<em>How to fix:</em>
  Reproject data to EPSG:4326, longitude must be within [-180, 180]
  and latitude within [-90, 90]`

	return &gn.Error{
		Code: errcode.CoordinateOutOfRangeError,
		Msg:  msg,
		Vars: []any{p[0], p[1]},
		Err:  fmt.Errorf("coordinate out of range: %v", p),
	}
}

// GeometryTooLargeError is returned when area exceeds the ceiling.
func GeometryTooLargeError(areaKm2, maxKm2 float64) error {
	msg := `Area <em>%.1f km²</em> exceeds maximum of <em>%.1f km²</em>

<em>How to fix:</em>
  Split the area into smaller parts`

	return &gn.Error{
		Code: errcode.GeometryTooLargeError,
		Msg:  msg,
		Vars: []any{areaKm2, maxKm2},
		Err: fmt.Errorf("geometry area %.1f km² exceeds %.1f km²",
			areaKm2, maxKm2),
	}
}

// CoverageError is returned when intersection cannot be computed.
func CoverageError(err error) error {
	msg := "Cannot compute intersection of geometries"

	return &gn.Error{
		Code: errcode.CoverageError,
		Msg:  msg,
		Err:  fmt.Errorf("intersection failed: %w", err),
	}
}

// NoValidGeometryError is returned when a source yields no valid
// polygonal geometry.
func NoValidGeometryError(source string) error {
	msg := `No valid geometry found in <em>%s</em>

<em>How to fix:</em>
  1. Make sure the upload contains a shapefile (.shp with .shx and .dbf)
     or a GeoJSON file
  2. Make sure features are Polygons or MultiPolygons in EPSG:4326`

	return &gn.Error{
		Code: errcode.NoValidGeometryError,
		Msg:  msg,
		Vars: []any{source},
		Err:  fmt.Errorf("no valid geometry in %s", source),
	}
}
