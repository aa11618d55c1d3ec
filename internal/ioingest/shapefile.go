package ioingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// readShapefile reads polygons and attributes of a shapefile. The .shx
// and .dbf sidecars are required, the .prj file is checked if present.
// Sidecar extensions are matched ignoring case.
func readShapefile(path string) (*source, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".shx", ".dbf"} {
		found, ok := sidecar(path, ext)
		if !ok {
			return nil, ReadSourceError(path,
				fmt.Errorf("missing sidecar file %s", ext))
		}
		// the shapefile reader opens <base>.dbf only
		if ext == ".dbf" && found != base+ext {
			if err := os.Rename(found, base+ext); err != nil {
				return nil, ReadSourceError(path, err)
			}
		}
	}

	res := &source{path: path}
	if prjPath, ok := sidecar(path, ".prj"); ok {
		prj, err := os.ReadFile(prjPath)
		if err == nil && strings.HasPrefix(strings.TrimSpace(string(prj)), "PROJCS") {
			res.warnings = append(res.warnings,
				"projected coordinate system, coordinates are expected in EPSG:4326")
		}
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, ReadSourceError(path, err)
	}
	defer r.Close()

	fields := r.Fields()
	for _, f := range fields {
		res.columns = append(res.columns, f.String())
	}

	for r.Next() {
		n, shape := r.Shape()
		props := make(map[string]string, len(fields))
		for i, col := range res.columns {
			v := strings.TrimSpace(gnlib.FixUtf8(r.ReadAttribute(n, i)))
			if v != "" {
				props[col] = v
			}
		}
		res.records = append(res.records, record{
			ordinal:  n + 1,
			geometry: shapeGeometry(shape),
			props:    props,
		})
	}
	if err = r.Err(); err != nil {
		return nil, ReadSourceError(path, err)
	}
	if len(res.records) == 0 {
		return nil, ReadSourceError(path, errors.New("no records"))
	}
	return res, nil
}

// sidecar finds a file next to the shapefile with the same base name and
// the given extension, ignoring case.
func sidecar(shpPath, ext string) (string, bool) {
	dir, file := filepath.Split(shpPath)
	want := strings.TrimSuffix(file, filepath.Ext(file)) + ext
	if _, err := os.Stat(filepath.Join(dir, want)); err == nil {
		return filepath.Join(dir, want), true
	}
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// shapeGeometry converts a shape to an orb geometry. Non-polygonal
// shapes are converted to their closest GeoJSON counterpart so they can
// be reported by type.
func shapeGeometry(s shp.Shape) orb.Geometry {
	switch v := s.(type) {
	case *shp.Polygon:
		return polygonParts(v.Parts, v.Points)
	case *shp.PolygonZ:
		return polygonParts(v.Parts, v.Points)
	case *shp.PolygonM:
		return polygonParts(v.Parts, v.Points)
	case *shp.Point:
		return orb.Point{v.X, v.Y}
	case *shp.PolyLine:
		return orb.MultiLineString{}
	case *shp.MultiPoint:
		return orb.MultiPoint{}
	default:
		return nil
	}
}

// polygonParts groups shapefile rings into polygons. Clockwise rings
// are outer rings, counter-clockwise rings are holes of the preceding
// outer ring. Files without clockwise rings are read as outer rings only.
func polygonParts(parts []int32, points []shp.Point) orb.MultiPolygon {
	rings := make([]orb.Ring, len(parts))
	hasCW := false
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings[i] = ring
		if ring.Orientation() == orb.CW {
			hasCW = true
		}
	}

	var res orb.MultiPolygon
	for _, ring := range rings {
		outer := !hasCW || ring.Orientation() == orb.CW || len(res) == 0
		if outer {
			res = append(res, orb.Polygon{ring})
			continue
		}
		last := len(res) - 1
		res[last] = append(res[last], ring)
	}
	return res
}
