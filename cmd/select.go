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
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iocatalog"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/gnames/gnaoi/pkg/selector"
	"github.com/spf13/cobra"
)

// getSelectCmd returns the select command.
func getSelectCmd() *cobra.Command {
	var (
		start, end string
		maxCloud   float64
		maxTiles   int
		pretty     bool
	)

	selectCmd := &cobra.Command{
		Use:   "select AOI_FILE",
		Short: "Select catalog tiles that cover AOIs",
		Long: `Select ranks catalog tiles for every valid AOI of an upload and
greedily picks tiles until the coverage target or the tile limit is
reached.

Each candidate gets three scores from 0 to 100:
  coverage  share of the AOI covered by the tile
  cloud     100 minus cloud cover percentage
  recency   100 for tiles sensed today, 0 for tiles a year old

The final score is a weighted sum, weights are set in the 'selection'
section of config.yaml. Cumulative coverage is a sum of tile coverage
scores, overlaps between tiles are not subtracted.

Examples:
  gnaoi select --start 2025-01-01 --end 2025-03-31 field.geojson
  gnaoi select -s 2025-01-01 -e 2025-06-30 --max-cloud 10 farms.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := selectRequest(start, end, maxCloud, maxTiles)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			return runSelect(cmd, args[0], req, pretty)
		},
	}

	selectCmd.Flags().StringVarP(&start, "start", "s", "",
		"start of the sensing period, YYYY-MM-DD (default one year ago)")
	selectCmd.Flags().StringVarP(&end, "end", "e", "",
		"end of the sensing period, YYYY-MM-DD (default today)")
	selectCmd.Flags().Float64Var(&maxCloud, "max-cloud", 100,
		"maximum cloud cover percentage")
	selectCmd.Flags().IntVar(&maxTiles, "max-tiles", 0,
		"maximum number of tiles per AOI (default from config)")
	prettyFlag(selectCmd, &pretty)

	return selectCmd
}

func selectRequest(
	start, end string,
	maxCloud float64,
	maxTiles int,
) (selector.Request, error) {
	res := selector.Request{
		End:           time.Now().UTC(),
		MaxCloudCover: maxCloud,
		MaxTiles:      maxTiles,
	}
	var err error
	if end != "" {
		if res.End, err = parseDate(end, true); err != nil {
			return res, selector.InvalidRequestError(err)
		}
	}
	res.Start = res.End.AddDate(-1, 0, 0)
	if start != "" {
		if res.Start, err = parseDate(start, false); err != nil {
			return res, selector.InvalidRequestError(err)
		}
	}
	return res, nil
}

func runSelect(
	cmd *cobra.Command,
	path string,
	req selector.Request,
	pretty bool,
) error {
	ctx := context.Background()

	ir, err := ingestFile(ctx, newIngester(false), path)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	aois := ir.Valid()
	if len(aois) == 0 {
		err = geom.NoValidGeometryError(path)
		gn.PrintErrorMessage(err)
		return err
	}

	var op db.Operator
	if cfg.Catalog.Kind == "postgres" {
		if op, err = connect(ctx); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer op.Close()
	}
	cat, err := iocatalog.New(ctx, cfg, op)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer cat.Close()

	s := selector.New(cfg)
	res := make([]*aoi.SelectionResult, 0, len(aois))
	for _, a := range aois {
		sr, err := s.Select(ctx, cat, a, req)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		res = append(res, sr)
	}
	return printJSON(cmd, res, pretty)
}
