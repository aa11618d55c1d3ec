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
	"slices"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iostore"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/hierarchy"
	"github.com/spf13/cobra"
)

// boundariesOutput is the JSON report of the boundaries command.
type boundariesOutput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Sources     []string          `json:"sources"`
	Level       aoi.Level         `json:"level"`
	Summary     hierarchy.Summary `json:"summary"`
	Diagnostics []aoi.Diagnostic  `json:"diagnostics,omitempty"`
}

// getBoundariesCmd returns the boundaries command.
func getBoundariesCmd() *cobra.Command {
	var (
		setName string
		store   bool
		pretty  bool
	)

	boundariesCmd := &cobra.Command{
		Use:   "boundaries FILE...",
		Short: "Import administrative boundaries and link their hierarchy",
		Long: `Boundaries reads one or more uploads as a single set of
administrative boundaries.

The administrative level of each file is detected from its attribute
columns (NAME_0..NAME_3, country, province, district, ward). Every
boundary is linked to a parent one level up whose name matches the
boundary's parent name attribute. Names are compared case-insensitively.

Boundaries have no area ceiling, self-intersecting or broken polygons
are reported as diagnostics.

Examples:
  gnaoi boundaries --name zimbabwe provinces.zip districts.zip
  gnaoi boundaries --store s3://gis/zw/wards.tar.xz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoundaries(cmd, args, setName, store, pretty)
		},
	}

	boundariesCmd.Flags().StringVarP(&setName, "name", "n", "",
		"name of the boundary set (default is the first file name)")
	boundariesCmd.Flags().BoolVarP(&store, "store", "s", false,
		"save the boundary set to the database")
	prettyFlag(boundariesCmd, &pretty)

	return boundariesCmd
}

func runBoundaries(
	cmd *cobra.Command,
	paths []string,
	setName string,
	store, pretty bool,
) error {
	ctx := context.Background()
	ing := newIngester(false)

	var set *aoi.BoundarySet
	var diags []aoi.Diagnostic
	for _, path := range paths {
		bs, dd, err := readBoundaries(ctx, ing, path, setName)
		diags = append(diags, dd...)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		set = mergeSets(set, bs)
	}

	sum, _ := hierarchy.Build(set)

	if store {
		op, err := connect(ctx)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer op.Close()

		st, err := iostore.New(op, cfg.Database.BatchSize)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		if err = st.SaveBoundarySet(ctx, set); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	return printJSON(cmd, boundariesOutput{
		ID:          set.ID,
		Name:        set.Name,
		Sources:     paths,
		Level:       set.Level,
		Summary:     sum,
		Diagnostics: diags,
	}, pretty)
}

func readBoundaries(
	ctx context.Context,
	ing aoi.Ingester,
	path, setName string,
) (*aoi.BoundarySet, []aoi.Diagnostic, error) {
	r, name, err := openSource(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return ing.Boundaries(ctx, r, name, setName)
}

// mergeSets appends boundaries of src to dst. The merged set keeps
// the ID and name of dst and the most detailed level.
func mergeSets(dst, src *aoi.BoundarySet) *aoi.BoundarySet {
	if dst == nil {
		return src
	}
	dst.Source += "," + src.Source
	dst.Level = max(dst.Level, src.Level)
	for _, c := range src.Columns {
		if !slices.Contains(dst.Columns, c) {
			dst.Columns = append(dst.Columns, c)
		}
	}
	dst.Boundaries = append(dst.Boundaries, src.Boundaries...)
	return dst
}
