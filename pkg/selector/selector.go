// Package selector ranks catalog tiles for an AOI and greedily picks a
// bounded set that covers it.
//
// Cumulative coverage is a sum of per-tile coverage scores. Overlaps
// between selected tiles are not subtracted, so the value is an upper
// estimate of the real coverage.
package selector

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// Rejection reasons reported in aoi.SelectionResult.Rejected.
const (
	RejectedDate         = "date"
	RejectedCloud        = "cloud"
	RejectedNoIntersect  = "no_intersection"
	RejectedScoringError = "scoring_error"
)

// Request describes a tile selection for an AOI.
type Request struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtefield=Start"`

	// MaxCloudCover is the cloudiest acceptable tile, in percent.
	MaxCloudCover float64 `json:"maxCloudCover" validate:"gte=0,lte=100"`

	// MaxTiles overrides the configured maximum when positive.
	MaxTiles int `json:"maxTiles,omitempty" validate:"gte=0"`
}

// Selector scores and selects tiles.
type Selector struct {
	cfg      config.SelectionConfig
	jobs     int
	now      func() time.Time
	validate *validator.Validate
}

// Option configures Selector.
type Option func(*Selector)

// OptClock sets the function that gives current time for recency
// scores.
func OptClock(now func() time.Time) Option {
	return func(s *Selector) {
		s.now = now
	}
}

// New creates a Selector from configuration.
func New(cfg *config.Config, opts ...Option) *Selector {
	res := &Selector{
		cfg:      cfg.Selection,
		jobs:     max(cfg.JobsNumber, 1),
		now:      time.Now,
		validate: validator.New(),
	}
	if res.cfg.MaxTiles <= 0 {
		res.cfg.MaxTiles = config.New().Selection.MaxTiles
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Select queries the catalog for candidates of the AOI and returns the
// selected tiles in ranking order. No candidates give an empty result.
func (s *Selector) Select(
	ctx context.Context,
	cat aoi.Catalog,
	a aoi.AOI,
	req Request,
) (*aoi.SelectionResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, InvalidRequestError(err)
	}

	res := &aoi.SelectionResult{
		AOIID:    a.ID,
		Rejected: make(map[string]int),
	}

	tiles, err := cat.Tiles(ctx, aoi.TileQuery{
		Bound:         a.Geometry.Bound(),
		Start:         req.Start,
		End:           req.End,
		MaxCloudCover: req.MaxCloudCover,
	})
	if err != nil {
		return nil, CatalogQueryError(err)
	}
	res.Considered = len(tiles)

	scored, err := s.score(ctx, a, req, tiles, res)
	if err != nil {
		return nil, err
	}
	Rank(scored)

	maxTiles := s.cfg.MaxTiles
	if req.MaxTiles > 0 {
		maxTiles = req.MaxTiles
	}
	res.Tiles, res.CumulativeCoverage = Greedy(scored, s.cfg.CoverageTarget, maxTiles)

	slog.Info("Tiles selected",
		"aoi", a.ID,
		"considered", res.Considered,
		"ranked", len(scored),
		"selected", len(res.Tiles),
		"coverage", res.CumulativeCoverage,
	)
	return res, nil
}

// candidate is a result slot of one scoring goroutine.
type candidate struct {
	tile   aoi.ScoredTile
	reason string
	err    error
}

func (s *Selector) score(
	ctx context.Context,
	a aoi.AOI,
	req Request,
	tiles []aoi.CatalogTile,
	res *aoi.SelectionResult,
) ([]aoi.ScoredTile, error) {
	now := s.now()
	slots := make([]candidate, len(tiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = s.scoreTile(a, req, tiles[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var scored []aoi.ScoredTile
	for i, c := range slots {
		if c.err != nil {
			slog.Warn("Skipping tile", "tile", tiles[i].ID, "error", c.err)
			res.Diagnostics = append(res.Diagnostics,
				aoi.NewDiagnostic(i+1, tiles[i].ID, c.err))
		}
		if c.reason != "" {
			res.Rejected[c.reason]++
			continue
		}
		scored = append(scored, c.tile)
	}
	return scored, nil
}

// scoreTile filters and scores one candidate. Panics are turned into
// a rejection of this candidate only.
func (s *Selector) scoreTile(
	a aoi.AOI,
	req Request,
	t aoi.CatalogTile,
	now time.Time,
) (res candidate) {
	defer func() {
		if r := recover(); r != nil {
			res = candidate{
				reason: RejectedScoringError,
				err:    geom.CoverageError(fmt.Errorf("%v", r)),
			}
		}
	}()

	if t.Err != nil {
		return candidate{reason: RejectedScoringError, err: t.Err}
	}
	if t.SensedAt.Before(req.Start) || t.SensedAt.After(req.End) {
		return candidate{reason: RejectedDate}
	}
	if t.CloudCover > req.MaxCloudCover {
		return candidate{reason: RejectedCloud}
	}

	cov, err := geom.Intersect(a.Geometry, t.Bounds)
	if err != nil {
		return candidate{reason: RejectedScoringError, err: err}
	}
	if !cov.Intersects {
		return candidate{reason: RejectedNoIntersect}
	}

	st := aoi.ScoredTile{
		Tile:            t,
		IntersectionKm2: cov.IntersectionKm2,
		CloudScore:      CloudScore(t.CloudCover),
		RecencyScore:    RecencyScore(t.SensedAt, now),
	}
	if cov.Defined {
		f := cov.Fraction
		st.Coverage = &f
		st.CoverageScore = clamp(f * 100)
	}
	st.Score = s.cfg.WeightCoverage*st.CoverageScore +
		s.cfg.WeightCloud*st.CloudScore +
		s.cfg.WeightRecency*st.RecencyScore
	return candidate{tile: st}
}

// CloudScore converts cloud cover percentage to a score.
func CloudScore(cloudCover float64) float64 {
	return clamp(100 - cloudCover)
}

// RecencyScore decreases linearly from 100 for a tile sensed now to 0
// for a tile sensed a year ago or earlier.
func RecencyScore(sensedAt, now time.Time) float64 {
	days := now.Sub(sensedAt).Hours() / 24
	return clamp(100 - days/365*100)
}

func clamp(f float64) float64 {
	return min(max(f, 0), 100)
}

// Rank sorts tiles by score descending, then by sensing time descending,
// then by tile ID.
func Rank(tiles []aoi.ScoredTile) {
	slices.SortStableFunc(tiles, func(a, b aoi.ScoredTile) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := b.Tile.SensedAt.Compare(a.Tile.SensedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Tile.ID, b.Tile.ID)
	})
}

// Greedy accepts ranked tiles until the summed coverage score reaches
// target or maxTiles tiles are taken.
func Greedy(
	ranked []aoi.ScoredTile,
	target float64,
	maxTiles int,
) ([]aoi.ScoredTile, float64) {
	res := make([]aoi.ScoredTile, 0, min(len(ranked), maxTiles))
	var total float64
	for _, t := range ranked {
		if len(res) >= maxTiles || total >= target {
			break
		}
		res = append(res, t)
		total += t.CoverageScore
	}
	return res, total
}
