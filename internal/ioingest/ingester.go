// Package ioingest reads uploaded archives and GeoJSON documents and
// normalizes their features into validated AOIs and boundary sets.
package ioingest

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/ioarchive"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/gnames/gnaoi/pkg/hierarchy"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

type ingester struct {
	dispatcher *ioarchive.Dispatcher
	validator  geom.Validator
	inspectAll bool
	jobs       int
}

// Option configures the ingester.
type Option func(*ingester)

// OptDispatcher sets the archive dispatcher.
func OptDispatcher(d *ioarchive.Dispatcher) Option {
	return func(i *ingester) {
		i.dispatcher = d
	}
}

// OptInspectAll makes validation report every failed check of a
// geometry instead of the first one.
func OptInspectAll(b bool) Option {
	return func(i *ingester) {
		i.inspectAll = b
	}
}

// New creates an Ingester from configuration.
func New(cfg *config.Config, opts ...Option) aoi.Ingester {
	res := &ingester{
		validator: geom.NewValidator(cfg.Geometry.MaxAreaKm2),
		jobs:      max(cfg.JobsNumber, 1),
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.dispatcher == nil {
		res.dispatcher = ioarchive.NewDispatcher(cfg.Archive)
	}
	return res
}

// checked is a record after normalization and validation.
type checked struct {
	rec     record
	mp      orb.MultiPolygon
	skipped error
	invalid []error
}

// Ingest implements aoi.Ingester.
func (i *ingester) Ingest(
	ctx context.Context,
	r io.Reader,
	name string,
) (*aoi.IngestResult, error) {
	res := &aoi.IngestResult{Source: name}
	err := i.dispatcher.With(ctx, r, name, func(ext *ioarchive.Extraction) error {
		sources, err := i.readSources(ext, res)
		if err != nil {
			return err
		}

		var all []checked
		for _, src := range sources {
			cc, err := i.check(ctx, src.records, i.validator)
			if err != nil {
				return err
			}
			for _, c := range cc {
				if c.skipped != nil {
					res.Skipped = append(res.Skipped,
						aoi.NewDiagnostic(c.rec.ordinal, resolveName(c.rec.props, c.rec.ordinal), c.skipped))
					continue
				}
				res.Entries = append(res.Entries, newEntry(name, src, c))
			}
			all = append(all, cc...)
		}

		if len(res.Valid()) > 0 {
			return nil
		}
		return noValidError(name, sources, all)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Ingestion finished",
		"source", name,
		"entries", len(res.Entries),
		"valid", len(res.Valid()),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// noValidError picks the error for an upload without valid AOIs. A
// single candidate returns its own error, anything else returns
// NoValidGeometry.
func noValidError(name string, sources []*source, all []checked) error {
	if len(all) != 1 {
		return geom.NoValidGeometryError(name)
	}
	c := all[0]
	switch {
	case len(c.invalid) > 0:
		return c.invalid[0]
	case c.skipped != nil && len(sources) == 1 && sources[0].single:
		return c.skipped
	}
	return geom.NoValidGeometryError(name)
}

func newEntry(upload string, src *source, c checked) aoi.Entry {
	name := resolveName(c.rec.props, c.rec.ordinal)
	file := filepath.Base(src.path)
	id := gnuuid.New(upload + "|" + file + "|" +
		strconv.Itoa(c.rec.ordinal) + "|" + name).String()

	a := aoi.AOI{
		ID:          id,
		Name:        name,
		Description: resolveDescription(c.rec.props),
		Source:      file,
		Ordinal:     c.rec.ordinal,
		Geometry:    c.mp,
		AreaKm2:     geom.AreaKm2(c.mp),
		IsValid:     len(c.invalid) == 0,
		Attributes:  c.rec.props,
	}

	var diags []aoi.Diagnostic
	for _, err := range c.invalid {
		a.ValidationErrors = append(a.ValidationErrors, err.Error())
		diags = append(diags, aoi.NewDiagnostic(c.rec.ordinal, name, err))
	}
	return aoi.Entry{AOI: a, Diagnostics: diags}
}

// readSources reads all geometry sources of an extraction. Sources that
// cannot be read are reported as skipped, unless there is only one.
func (i *ingester) readSources(
	ext *ioarchive.Extraction,
	res *aoi.IngestResult,
) ([]*source, error) {
	paths := ext.Sources()
	var sources []*source
	for _, path := range paths {
		var src *source
		var err error
		if strings.EqualFold(filepath.Ext(path), ".shp") {
			src, err = readShapefile(path)
		} else {
			src, err = readGeoJSON(path)
		}
		if err != nil {
			if len(paths) == 1 {
				return nil, err
			}
			slog.Warn("Skipping geometry source", "path", path, "error", err)
			res.Skipped = append(res.Skipped,
				aoi.NewDiagnostic(0, filepath.Base(path), err))
			continue
		}
		for _, w := range src.warnings {
			slog.Warn("Geometry source warning",
				"path", filepath.Base(path), "warning", w)
			res.Warnings = append(res.Warnings, filepath.Base(path)+": "+w)
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, geom.NoValidGeometryError(ext.Name)
	}
	return sources, nil
}

// check normalizes and validates records in parallel. Results keep the
// order of records.
func (i *ingester) check(
	ctx context.Context,
	recs []record,
	v geom.Validator,
) ([]checked, error) {
	res := make([]checked, len(recs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.jobs)
	for idx := range recs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[idx] = i.checkRecord(recs[idx], v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (i *ingester) checkRecord(rec record, v geom.Validator) checked {
	res := checked{rec: rec}
	mp, err := geom.Normalize(rec.geometry)
	if err != nil {
		res.skipped = err
		return res
	}
	res.mp = mp
	if i.inspectAll {
		res.invalid = v.Inspect(mp)
	} else if err = v.Validate(mp); err != nil {
		res.invalid = []error{err}
	}
	return res
}

// Boundaries implements aoi.Ingester. Boundary polygons are validated
// without the AOI area ceiling, invalid ones are skipped.
func (i *ingester) Boundaries(
	ctx context.Context,
	r io.Reader,
	name, setName string,
) (*aoi.BoundarySet, []aoi.Diagnostic, error) {
	if setName == "" {
		setName = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	res := &aoi.BoundarySet{
		ID:     uuid.NewString(),
		Name:   setName,
		Source: name,
	}
	var diags []aoi.Diagnostic
	v := geom.NewValidator(math.MaxFloat64)

	err := i.dispatcher.With(ctx, r, name, func(ext *ioarchive.Extraction) error {
		ingest := &aoi.IngestResult{}
		sources, err := i.readSources(ext, ingest)
		if err != nil {
			return err
		}
		diags = append(diags, ingest.Skipped...)

		for n, src := range sources {
			level := hierarchy.DetectLevel(src.columns)
			slog.Debug("Boundary level detected",
				"source", filepath.Base(src.path), "level", level.String())
			res.Columns = appendNew(res.Columns, src.columns...)
			if n == 0 || level > res.Level {
				res.Level = level
			}

			cc, err := i.check(ctx, src.records, v)
			if err != nil {
				return err
			}
			for _, c := range cc {
				fName := resolveName(c.rec.props, c.rec.ordinal)
				if c.skipped != nil {
					diags = append(diags, aoi.NewDiagnostic(c.rec.ordinal, fName, c.skipped))
					continue
				}
				if len(c.invalid) > 0 {
					diags = append(diags, aoi.NewDiagnostic(c.rec.ordinal, fName, c.invalid[0]))
					continue
				}
				res.Boundaries = append(res.Boundaries,
					newBoundary(level, c, fName))
			}
		}
		if len(res.Boundaries) == 0 {
			return geom.NoValidGeometryError(name)
		}
		return nil
	})
	if err != nil {
		return nil, diags, err
	}

	slog.Info("Boundaries read",
		"source", name,
		"level", res.Level.String(),
		"boundaries", len(res.Boundaries),
		"skipped", len(diags),
	)
	return res, diags, nil
}

func newBoundary(level aoi.Level, c checked, fallback string) aoi.Boundary {
	names := hierarchy.Names(c.rec.props)
	name := names[level]
	if name == "" {
		name = fallback
		names[level] = name
	}
	return aoi.Boundary{
		Level:      level,
		Name:       name,
		Names:      names,
		Geometry:   c.mp,
		Attributes: c.rec.props,
	}
}

func appendNew(ss []string, vals ...string) []string {
	for _, v := range vals {
		if !slices.Contains(ss, v) {
			ss = append(ss, v)
		}
	}
	return ss
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code gn.ErrorCode) bool {
	gnErr, ok := err.(*gn.Error)
	return ok && gnErr.Code == code
}
