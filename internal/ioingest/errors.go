package ioingest

import (
	"fmt"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// ReadSourceError is returned when a geometry source cannot be parsed.
func ReadSourceError(path string, err error) error {
	msg := `Cannot read geometry source <em>%s</em>

<em>Possible causes:</em>
  - GeoJSON document is malformed
  - Shapefile misses .shx or .dbf sidecar files

<em>How to fix:</em>
  Open the file in QGIS or ogrinfo and export it again`

	return &gn.Error{
		Code: errcode.ReadSourceError,
		Msg:  msg,
		Vars: []any{filepath.Base(path)},
		Err:  fmt.Errorf("cannot read %s: %w", filepath.Base(path), err),
	}
}
