package ioingest

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// record is a raw feature read from a geometry source.
type record struct {
	ordinal  int
	geometry orb.Geometry
	props    map[string]string
}

// source is the content of one geometry file.
type source struct {
	path    string
	records []record

	// columns are attribute names in the order of the source.
	columns []string

	// single is true for bare geometries and single Features.
	single bool

	warnings []string
}

func readGeoJSON(path string) (*source, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadSourceError(path, err)
	}
	return parseGeoJSON(path, bs)
}

func parseGeoJSON(path string, bs []byte) (*source, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bs, &head); err != nil {
		return nil, ReadSourceError(path, err)
	}

	res := &source{path: path}
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(bs)
		if err != nil {
			return nil, ReadSourceError(path, err)
		}
		for i, f := range fc.Features {
			res.add(i+1, f.Geometry, f.Properties)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(bs)
		if err != nil {
			return nil, ReadSourceError(path, err)
		}
		res.single = true
		res.add(1, f.Geometry, f.Properties)
	case "":
		return nil, ReadSourceError(path, fmt.Errorf("missing GeoJSON type"))
	default:
		g, err := geojson.UnmarshalGeometry(bs)
		if err != nil {
			return nil, ReadSourceError(path, err)
		}
		res.single = true
		res.add(1, g.Geometry(), nil)
	}
	slices.Sort(res.columns)
	return res, nil
}

func (s *source) add(ord int, g orb.Geometry, props map[string]any) {
	attrs := stringify(props)
	for k := range attrs {
		if !slices.Contains(s.columns, k) {
			s.columns = append(s.columns, k)
		}
	}
	s.records = append(s.records, record{
		ordinal:  ord,
		geometry: g,
		props:    attrs,
	})
}
