/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iocatalog"
	"github.com/gnames/gnaoi/internal/iostore"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/spf13/cobra"
)

// importOutput is the JSON report of the catalog import command.
type importOutput struct {
	Catalog     string           `json:"catalog"`
	Imported    int              `json:"imported"`
	Diagnostics []aoi.Diagnostic `json:"diagnostics,omitempty"`
}

// getCatalogCmd returns the catalog command with its subcommands.
func getCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the satellite tile catalog",
		Long: `Catalog commands manage satellite tiles used by 'gnaoi select'.

The catalog kind is set by 'catalog.kind' in config.yaml, by
GNAOI_CATALOG_KIND or by the --catalog flag:
  - sqlite: a local file, ~/.cache/gnaoi/catalog.sqlite by default
  - postgres: the catalog_tiles table with a PostGIS footprint index`,
	}
	catalogCmd.AddCommand(getCatalogImportCmd())
	return catalogCmd
}

func getCatalogImportCmd() *cobra.Command {
	var pretty bool

	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import tile footprints from GeoJSON",
		Long: `Import reads GeoJSON FeatureCollections of tile footprints.

Every feature needs Polygon or MultiPolygon geometry and properties:
  id           unique tile identifier
  sensed_at    acquisition time, RFC 3339 or YYYY-MM-DD
  cloud_cover  cloud cover percentage from 0 to 100

Other properties are kept as tile metadata. Tiles with an existing
id are replaced. Files can be local paths or s3:// locations.

Examples:
  gnaoi catalog import sentinel2_2025.geojson
  gnaoi catalog import --catalog postgres s3://catalog/l8.geojson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(cmd, args, pretty)
		},
	}
	prettyFlag(importCmd, &pretty)
	return importCmd
}

func runCatalogImport(cmd *cobra.Command, paths []string, pretty bool) error {
	ctx := context.Background()

	var tiles []aoi.CatalogTile
	res := importOutput{Catalog: cfg.Catalog.Kind}
	bar := newProgressBar(len(paths), "Reading footprints: ")
	for _, path := range paths {
		tt, diags, err := readTiles(ctx, path)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			if bar != nil {
				bar.Finish()
			}
			gn.PrintErrorMessage(err)
			return err
		}
		tiles = append(tiles, tt...)
	}
	if bar != nil {
		bar.Finish()
	}

	var err error
	switch cfg.Catalog.Kind {
	case "postgres":
		err = importPostgres(ctx, tiles)
	default:
		err = importLocal(ctx, tiles)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res.Imported = len(tiles)
	slog.Info("Tiles imported",
		"catalog", res.Catalog,
		"tiles", res.Imported,
		"rejected", len(res.Diagnostics),
	)
	return printJSON(cmd, res, pretty)
}

func readTiles(
	ctx context.Context,
	path string,
) ([]aoi.CatalogTile, []aoi.Diagnostic, error) {
	r, name, err := openSource(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return iocatalog.ReadTiles(r, name)
}

func importPostgres(ctx context.Context, tiles []aoi.CatalogTile) error {
	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	st, err := iostore.New(op, cfg.Database.BatchSize)
	if err != nil {
		return err
	}
	return st.SaveTiles(ctx, tiles)
}

func importLocal(ctx context.Context, tiles []aoi.CatalogTile) error {
	cat, err := iocatalog.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer cat.Close()

	imp, ok := cat.(iocatalog.Importer)
	if !ok {
		return iocatalog.ImportError(cfg.Catalog.Kind,
			fmt.Errorf("catalog does not accept tiles"))
	}
	return imp.Import(ctx, tiles)
}
