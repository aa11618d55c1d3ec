package iocatalog

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// OpenError is returned when a catalog cannot be opened.
func OpenError(kind string, err error) error {
	msg := `Cannot open <em>%s</em> tile catalog

<em>How to fix:</em>
  1. Check catalog settings in ~/.config/gnaoi/config.yaml
  2. For postgres catalog run <em>gnaoi schema create</em> first`

	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  msg,
		Vars: []any{kind},
		Err:  fmt.Errorf("cannot open %s catalog: %w", kind, err),
	}
}

// QueryError is returned when tiles cannot be read from a catalog.
func QueryError(kind string, err error) error {
	msg := "Cannot query <em>%s</em> tile catalog"

	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  msg,
		Vars: []any{kind},
		Err:  fmt.Errorf("%s catalog query failed: %w", kind, err),
	}
}

// TileDecodeError is attached to a catalog tile whose stored footprint
// or metadata cannot be decoded.
func TileDecodeError(id string, err error) error {
	msg := `Cannot decode catalog tile <em>%s</em>

<em>How to fix:</em>
  Re-import the tile with a Polygon or MultiPolygon footprint`

	return &gn.Error{
		Code: errcode.CatalogTileDecodeError,
		Msg:  msg,
		Vars: []any{id},
		Err:  fmt.Errorf("cannot decode catalog tile %s: %w", id, err),
	}
}

// ImportError is returned when tiles cannot be imported.
func ImportError(source string, err error) error {
	msg := `Cannot import tiles from <em>%s</em>

<em>How to fix:</em>
  Provide a GeoJSON FeatureCollection of Polygon footprints with
  'id', 'sensed_at' (RFC 3339 or YYYY-MM-DD) and 'cloud_cover' properties`

	return &gn.Error{
		Code: errcode.CatalogImportError,
		Msg:  msg,
		Vars: []any{source},
		Err:  fmt.Errorf("cannot import tiles from %s: %w", source, err),
	}
}
