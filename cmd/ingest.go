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
	"log/slog"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/ioarchive"
	"github.com/gnames/gnaoi/internal/ioingest"
	"github.com/gnames/gnaoi/internal/iostore"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/spf13/cobra"
)

// getIngestCmd returns the ingest command.
func getIngestCmd() *cobra.Command {
	var (
		store      bool
		inspectAll bool
		pretty     bool
	)

	ingestCmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Ingest uploads into validated AOIs",
		Long: `Ingest reads uploaded files and converts their polygons into
validated areas of interest (AOIs).

Accepted uploads:
  - zip, tar, tar.gz, tar.bz2 and tar.xz archives
  - rar archives (need one of: ` + strings.Join(ioarchive.ToolNames(ioarchive.Rar), ", ") + `)
  - 7z archives (need one of: ` + strings.Join(ioarchive.ToolNames(ioarchive.SevenZip), ", ") + `)
  - shapefiles inside archives (.shp with .shx and .dbf)
  - GeoJSON documents (.geojson or .json)

Files can be local paths or s3://bucket/key locations.

Each AOI gets a stable ID, an area in square kilometers and a list
of validation errors. The results are printed as JSON. With --store
valid AOIs are saved to PostgreSQL (run 'gnaoi schema create' first).

Examples:
  gnaoi ingest farms.zip
  gnaoi ingest --store s3://uploads/zw/fields.tar.gz
  gnaoi ingest -a --pretty field.geojson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, store, inspectAll, pretty)
		},
	}

	ingestCmd.Flags().BoolVarP(&store, "store", "s", false,
		"save valid AOIs to the database")
	ingestCmd.Flags().BoolVarP(&inspectAll, "inspect-all", "a", false,
		"report every failed validation check, not only the first one")
	prettyFlag(ingestCmd, &pretty)

	return ingestCmd
}

// newIngester creates an ingester that extracts uploads into the cache
// directory.
func newIngester(inspectAll bool) aoi.Ingester {
	d := ioarchive.NewDispatcher(cfg.Archive,
		ioarchive.OptTempDir(config.CacheDir(cfg.HomeDir)))
	return ioingest.New(cfg,
		ioingest.OptDispatcher(d),
		ioingest.OptInspectAll(inspectAll),
	)
}

// ingestFile opens and ingests one local or S3 file.
func ingestFile(
	ctx context.Context,
	ing aoi.Ingester,
	path string,
) (*aoi.IngestResult, error) {
	r, name, err := openSource(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ing.Ingest(ctx, r, name)
}

func runIngest(
	cmd *cobra.Command,
	paths []string,
	store, inspectAll, pretty bool,
) error {
	ctx := context.Background()
	ing := newIngester(inspectAll)

	var st aoi.Store
	if store {
		op, err := connect(ctx)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer op.Close()
		if st, err = iostore.New(op, cfg.Database.BatchSize); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	bar := newProgressBar(len(paths), "Ingesting uploads: ")

	res := make([]*aoi.IngestResult, 0, len(paths))
	var valid, invalid int
	for _, path := range paths {
		ir, err := ingestFile(ctx, ing, path)
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
		aois := ir.Valid()
		valid += len(aois)
		invalid += len(ir.Entries) - len(aois)

		if st != nil {
			if err = st.SaveAOIs(ctx, aois); err != nil {
				if bar != nil {
					bar.Finish()
				}
				gn.PrintErrorMessage(err)
				return err
			}
		}
		res = append(res, ir)
	}
	if bar != nil {
		bar.Finish()
	}

	slog.Info("Ingestion finished",
		"uploads", len(paths), "valid", valid, "invalid", invalid)

	if len(res) == 1 {
		return printJSON(cmd, res[0], pretty)
	}
	return printJSON(cmd, res, pretty)
}
