package iocatalog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/paulmach/orb/geojson"
)

// tileKeys are properties that become CatalogTile fields instead of
// metadata.
var tileKeys = map[string]struct{}{
	"id": {}, "sensed_at": {}, "cloud_cover": {},
}

// ReadTiles reads tile footprints from a GeoJSON FeatureCollection.
// Every feature needs 'id', 'sensed_at' and 'cloud_cover' properties,
// other properties become metadata. Features that cannot be converted
// are reported as diagnostics.
func ReadTiles(r io.Reader, source string) ([]aoi.CatalogTile, []aoi.Diagnostic, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, ImportError(source, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(bs)
	if err != nil {
		return nil, nil, ImportError(source, err)
	}

	var res []aoi.CatalogTile
	var diags []aoi.Diagnostic
	for i, f := range fc.Features {
		t, err := featureTile(f)
		if err != nil {
			diags = append(diags, aoi.NewDiagnostic(i+1, str(f.Properties["id"]),
				ImportError(source, err)))
			continue
		}
		res = append(res, t)
	}
	if len(res) == 0 {
		return nil, diags, ImportError(source, errors.New("no usable tiles"))
	}
	return res, diags, nil
}

func featureTile(f *geojson.Feature) (aoi.CatalogTile, error) {
	var res aoi.CatalogTile
	props := f.Properties

	res.ID = str(props["id"])
	if res.ID == "" {
		res.ID = str(f.ID)
	}
	if res.ID == "" {
		return res, errors.New("missing 'id'")
	}

	sensed, err := parseTime(str(props["sensed_at"]))
	if err != nil {
		return res, fmt.Errorf("tile %s: %w", res.ID, err)
	}
	res.SensedAt = sensed

	cloud, ok := props["cloud_cover"].(float64)
	if !ok || cloud < 0 || cloud > 100 {
		return res, fmt.Errorf("tile %s: 'cloud_cover' must be a number in [0, 100]", res.ID)
	}
	res.CloudCover = cloud

	if res.Bounds, err = geom.Normalize(f.Geometry); err != nil {
		return res, err
	}
	if len(res.Bounds) == 0 {
		return res, fmt.Errorf("tile %s: empty footprint", res.ID)
	}

	for k, v := range props {
		if _, ok := tileKeys[k]; ok || v == nil {
			continue
		}
		if res.Metadata == nil {
			res.Metadata = make(map[string]any)
		}
		res.Metadata[k] = v
	}
	return res, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse 'sensed_at' value %q", s)
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
