package selector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/errcode"
	"github.com/gnames/gnaoi/pkg/selector"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func square(x, y, size float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}}
}

func daysAgo(d int) time.Time {
	return now.AddDate(0, 0, -d)
}

// fakeCatalog returns all its tiles, leaving filtering to the selector.
type fakeCatalog struct {
	tiles []aoi.CatalogTile
	err   error
}

func (c fakeCatalog) Tiles(context.Context, aoi.TileQuery) ([]aoi.CatalogTile, error) {
	return c.tiles, c.err
}

func (c fakeCatalog) Close() error { return nil }

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	return gnErr.Code
}

func newSelector() *selector.Selector {
	cfg := config.New()
	cfg.JobsNumber = 2
	return selector.New(cfg, selector.OptClock(func() time.Time { return now }))
}

func testAOI() aoi.AOI {
	return aoi.AOI{ID: "aoi-1", Geometry: square(10, 10, 1), IsValid: true}
}

func testRequest() selector.Request {
	return selector.Request{
		Start:         daysAgo(365),
		End:           now,
		MaxCloudCover: 20,
	}
}

func TestSelect(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cat := fakeCatalog{tiles: []aoi.CatalogTile{
		{ID: "T1", Bounds: square(9.5, 9.5, 2), SensedAt: daysAgo(10), CloudCover: 5},
		{ID: "T2", Bounds: square(10, 10, 0.5), SensedAt: daysAgo(30), CloudCover: 0},
		{ID: "T3", Bounds: square(50, 50, 1), SensedAt: daysAgo(1), CloudCover: 0},
		{ID: "T4", Bounds: square(10, 10, 1), SensedAt: daysAgo(1), CloudCover: 80},
		{ID: "T5", Bounds: square(10, 10, 1), SensedAt: daysAgo(400), CloudCover: 0},
	}}

	res, err := newSelector().Select(context.Background(), cat, testAOI(), testRequest())
	require.Nil(err)
	assert.Equal("aoi-1", res.AOIID)
	assert.Equal(5, res.Considered)
	assert.Equal(1, res.Rejected[selector.RejectedNoIntersect])
	assert.Equal(1, res.Rejected[selector.RejectedCloud])
	assert.Equal(1, res.Rejected[selector.RejectedDate])
	assert.Empty(res.Diagnostics)

	require.Len(res.Tiles, 1)
	t1 := res.Tiles[0]
	assert.Equal("T1", t1.Tile.ID)
	require.NotNil(t1.Coverage)
	assert.InDelta(1.0, *t1.Coverage, 1e-6)
	assert.InDelta(100, t1.CoverageScore, 1e-4)
	assert.InDelta(95, t1.CloudScore, 1e-9)
	assert.InDelta(100-10.0/365*100, t1.RecencyScore, 1e-9)
	assert.InDelta(0.4*100+0.3*95+0.3*(100-10.0/365*100), t1.Score, 1e-3)
	assert.InDelta(100, res.CumulativeCoverage, 1e-4)
}

func TestSelectAccumulates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cat := fakeCatalog{tiles: []aoi.CatalogTile{
		{ID: "W", Bounds: square(9, 9.5, 1.5), SensedAt: daysAgo(5), CloudCover: 0},
		{ID: "E", Bounds: square(10.5, 9.5, 1.5), SensedAt: daysAgo(5), CloudCover: 0},
		{ID: "C", Bounds: square(10.4, 9.5, 0.2), SensedAt: daysAgo(5), CloudCover: 0},
	}}

	res, err := newSelector().Select(context.Background(), cat, testAOI(), testRequest())
	require.Nil(err)
	require.Len(res.Tiles, 2)
	assert.ElementsMatch([]string{"W", "E"},
		[]string{res.Tiles[0].Tile.ID, res.Tiles[1].Tile.ID})
	assert.InDelta(100, res.CumulativeCoverage, 0.5)
}

func TestSelectMaxTiles(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var tiles []aoi.CatalogTile
	for i, id := range []string{"a", "b", "c", "d"} {
		tiles = append(tiles, aoi.CatalogTile{
			ID:       id,
			Bounds:   square(10+float64(i)*0.1, 10, 0.1),
			SensedAt: daysAgo(5),
		})
	}
	req := testRequest()
	req.MaxTiles = 3

	res, err := newSelector().Select(context.Background(), fakeCatalog{tiles: tiles}, testAOI(), req)
	require.Nil(err)
	assert.Len(res.Tiles, 3)
	assert.Less(res.CumulativeCoverage, 95.0)
}

func TestSelectScoringFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	unclosed := orb.MultiPolygon{{{{10.2, 10.2}, {10.8, 10.2}, {10.8, 10.8}, {10.2, 10.8}}}}
	cat := fakeCatalog{tiles: []aoi.CatalogTile{
		{ID: "broken", Bounds: unclosed, SensedAt: daysAgo(2), CloudCover: 0},
		{ID: "good", Bounds: square(9.5, 9.5, 2), SensedAt: daysAgo(5), CloudCover: 5},
		{ID: "undecoded", SensedAt: daysAgo(2), Err: errors.New("bad wkb")},
	}}

	res, err := newSelector().Select(context.Background(), cat, testAOI(), testRequest())
	require.Nil(err)
	assert.Equal(3, res.Considered)
	assert.Equal(2, res.Rejected[selector.RejectedScoringError])
	require.Len(res.Tiles, 1)
	assert.Equal("good", res.Tiles[0].Tile.ID)

	require.Len(res.Diagnostics, 2)
	assert.Equal("broken", res.Diagnostics[0].Name)
	assert.Equal(1, res.Diagnostics[0].Ordinal)
	assert.Equal(errcode.CoverageError, res.Diagnostics[0].Code)
	assert.Equal("undecoded", res.Diagnostics[1].Name)
	assert.Contains(res.Diagnostics[1].Message, "bad wkb")
}

func TestSelectZeroAreaAOI(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	flat := aoi.AOI{
		ID:       "flat",
		Geometry: orb.MultiPolygon{{{{10.2, 10.5}, {10.5, 10.5}, {10.8, 10.5}, {10.2, 10.5}}}},
		IsValid:  true,
	}
	cat := fakeCatalog{tiles: []aoi.CatalogTile{
		{ID: "T1", Bounds: square(10, 10, 1), SensedAt: daysAgo(10), CloudCover: 0},
	}}

	res, err := newSelector().Select(context.Background(), cat, flat, testRequest())
	require.Nil(err)
	assert.Empty(res.Diagnostics)
	require.Len(res.Tiles, 1)
	st := res.Tiles[0]
	assert.Nil(st.Coverage)
	assert.Zero(st.CoverageScore)
	assert.InDelta(0.3*100+0.3*(100-10.0/365*100), st.Score, 1e-9)
	assert.Zero(res.CumulativeCoverage)
}

func TestSelectEmpty(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	res, err := newSelector().Select(context.Background(), fakeCatalog{}, testAOI(), testRequest())
	require.Nil(err)
	assert.Empty(res.Tiles)
	assert.Zero(res.CumulativeCoverage)
	assert.Zero(res.Considered)
}

func TestSelectErrors(t *testing.T) {
	assert := assert.New(t)
	s := newSelector()

	req := testRequest()
	req.End = req.Start.Add(-time.Hour)
	_, err := s.Select(context.Background(), fakeCatalog{}, testAOI(), req)
	assert.Equal(errcode.InvalidSelectionRequestError, errCode(t, err))

	req = testRequest()
	req.MaxCloudCover = 120
	_, err = s.Select(context.Background(), fakeCatalog{}, testAOI(), req)
	assert.Equal(errcode.InvalidSelectionRequestError, errCode(t, err))

	cat := fakeCatalog{err: errors.New("connection refused")}
	_, err = s.Select(context.Background(), cat, testAOI(), testRequest())
	assert.Equal(errcode.CatalogQueryError, errCode(t, err))
}

func TestRank(t *testing.T) {
	assert := assert.New(t)
	tiles := []aoi.ScoredTile{
		{Tile: aoi.CatalogTile{ID: "b", SensedAt: daysAgo(2)}, Score: 50},
		{Tile: aoi.CatalogTile{ID: "a", SensedAt: daysAgo(2)}, Score: 50},
		{Tile: aoi.CatalogTile{ID: "c", SensedAt: daysAgo(1)}, Score: 50},
		{Tile: aoi.CatalogTile{ID: "d", SensedAt: daysAgo(9)}, Score: 70},
	}
	selector.Rank(tiles)

	var ids []string
	for _, v := range tiles {
		ids = append(ids, v.Tile.ID)
	}
	assert.Equal([]string{"d", "c", "a", "b"}, ids)
}

func TestGreedy(t *testing.T) {
	assert := assert.New(t)
	ranked := []aoi.ScoredTile{
		{CoverageScore: 60}, {CoverageScore: 30}, {CoverageScore: 10}, {CoverageScore: 50},
	}
	tests := []struct {
		msg      string
		target   float64
		maxTiles int
		count    int
		total    float64
	}{
		{"target reached", 95, 10, 3, 100},
		{"max tiles", 95, 2, 2, 90},
		{"low target", 50, 10, 1, 60},
		{"unreachable", 500, 10, 4, 150},
	}
	for _, v := range tests {
		res, total := selector.Greedy(ranked, v.target, v.maxTiles)
		assert.Len(res, v.count, v.msg)
		assert.Equal(v.total, total, v.msg)
	}
}

func TestScores(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(100.0, selector.CloudScore(0))
	assert.Equal(0.0, selector.CloudScore(100))
	assert.Equal(100.0, selector.RecencyScore(now, now))
	assert.Equal(100.0, selector.RecencyScore(now.Add(time.Hour), now))
	assert.InDelta(50, selector.RecencyScore(now.Add(-time.Hour*24*365/2), now), 1e-9)
	assert.Equal(0.0, selector.RecencyScore(daysAgo(500), now))
}
