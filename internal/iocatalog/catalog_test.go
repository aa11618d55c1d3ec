package iocatalog_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iocatalog"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/errcode"
	"github.com/gnames/gnaoi/pkg/selector"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}}
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC)
}

func testTiles() []aoi.CatalogTile {
	return []aoi.CatalogTile{
		{ID: "c", Bounds: square(10, 10, 1), SensedAt: day(3), CloudCover: 10,
			Metadata: map[string]any{"platform": "S2B"}},
		{ID: "a", Bounds: square(10.5, 10.5, 1), SensedAt: day(5), CloudCover: 30},
		{ID: "b", Bounds: square(40, 40, 1), SensedAt: day(4), CloudCover: 0},
		{ID: "d", Bounds: square(9, 9, 3), SensedAt: day(20), CloudCover: 0},
	}
}

func testQuery() aoi.TileQuery {
	return aoi.TileQuery{
		Bound:         square(10.2, 10.2, 0.5).Bound(),
		Start:         day(1),
		End:           day(10),
		MaxCloudCover: 50,
	}
}

func ids(tiles []aoi.CatalogTile) []string {
	var res []string
	for _, t := range tiles {
		res = append(res, t.ID)
	}
	return res
}

func TestMatches(t *testing.T) {
	assert := assert.New(t)
	q := testQuery()
	tiles := testTiles()

	assert.True(iocatalog.Matches(tiles[0], q))
	assert.False(iocatalog.Matches(tiles[2], q), "far away")
	assert.False(iocatalog.Matches(tiles[3], q), "too late")

	q.MaxCloudCover = 20
	assert.False(iocatalog.Matches(tiles[1], q), "too cloudy")

	q.End = time.Time{}
	assert.True(iocatalog.Matches(tiles[3], q), "open end")
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	cat := iocatalog.NewMemory(testTiles()[:2]...)
	require.NoError(cat.Import(ctx, testTiles()[2:]))

	res, err := cat.Tiles(ctx, testQuery())
	require.NoError(err)
	assert.Equal([]string{"a", "c"}, ids(res))
	assert.NoError(cat.Close())
}

func TestSQLite(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	cat, err := iocatalog.OpenSQLite(ctx, ":memory:")
	require.NoError(err)
	defer cat.Close()

	require.NoError(cat.Import(ctx, testTiles()))

	res, err := cat.Tiles(ctx, testQuery())
	require.NoError(err)
	require.Equal([]string{"a", "c"}, ids(res))

	c := res[1]
	assert.Equal(day(3), c.SensedAt)
	assert.Equal(10.0, c.CloudCover)
	assert.Equal(square(10, 10, 1), c.Bounds)
	assert.Equal("S2B", c.Metadata["platform"])

	// replace tile with the same id
	moved := testTiles()[0]
	moved.Bounds = square(50, 50, 1)
	require.NoError(cat.Import(ctx, []aoi.CatalogTile{moved}))
	res, err = cat.Tiles(ctx, testQuery())
	require.NoError(err)
	assert.Equal([]string{"a"}, ids(res))
}

func TestSQLiteFile(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cfg := config.New()
	cfg.HomeDir = t.TempDir()

	cat, err := iocatalog.New(ctx, cfg, nil)
	require.NoError(err)
	sqlite, ok := cat.(*iocatalog.SQLite)
	require.True(ok)
	require.NoError(sqlite.Import(ctx, testTiles()))
	require.NoError(cat.Close())

	cat, err = iocatalog.OpenSQLite(ctx, cfg.CatalogPath())
	require.NoError(err)
	defer cat.Close()
	res, err := cat.Tiles(ctx, aoi.TileQuery{
		Bound:         orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}},
		MaxCloudCover: 100,
	})
	require.NoError(err)
	require.Len(res, 4)
}

func TestNewUnknownKind(t *testing.T) {
	cfg := config.New()
	cfg.Catalog.Kind = "redis"
	_, err := iocatalog.New(context.Background(), cfg, nil)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CatalogQueryError, gnErr.Code)
}

func TestSelectFromSQLite(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	cat, err := iocatalog.OpenSQLite(ctx, ":memory:")
	require.NoError(err)
	defer cat.Close()
	require.NoError(cat.Import(ctx, testTiles()))

	cfg := config.New()
	s := selector.New(cfg, selector.OptClock(func() time.Time { return day(15) }))
	a := aoi.AOI{ID: "x", Geometry: square(10.2, 10.2, 0.5), IsValid: true}
	res, err := s.Select(ctx, cat, a, selector.Request{
		Start: day(1), End: day(10), MaxCloudCover: 50,
	})
	require.NoError(err)
	assert.Equal(2, res.Considered)
	require.NotEmpty(res.Tiles)
	assert.Equal("c", res.Tiles[0].Tile.ID)
}

const tilesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "S2A_1", "sensed_at": "2025-01-03T10:00:00Z",
        "cloud_cover": 12.5, "platform": "S2A"},
      "geometry": {"type": "Polygon",
        "coordinates": [[[10,10],[11,10],[11,11],[10,11],[10,10]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "L8_2", "sensed_at": "2025-01-04", "cloud_cover": 0},
      "geometry": {"type": "MultiPolygon",
        "coordinates": [[[[12,10],[13,10],[13,11],[12,11],[12,10]]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "bad_date", "sensed_at": "yesterday", "cloud_cover": 0},
      "geometry": {"type": "Polygon",
        "coordinates": [[[10,10],[11,10],[11,11],[10,11],[10,10]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "bad_cloud", "sensed_at": "2025-01-04", "cloud_cover": 120},
      "geometry": {"type": "Polygon",
        "coordinates": [[[10,10],[11,10],[11,11],[10,11],[10,10]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "point", "sensed_at": "2025-01-04", "cloud_cover": 1},
      "geometry": {"type": "Point", "coordinates": [10, 10]}
    }
  ]
}`

func TestReadTiles(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tiles, diags, err := iocatalog.ReadTiles(strings.NewReader(tilesGeoJSON), "tiles.geojson")
	require.NoError(err)
	require.Len(tiles, 2)
	require.Len(diags, 3)

	assert.Equal("S2A_1", tiles[0].ID)
	assert.Equal(day(3), tiles[0].SensedAt)
	assert.Equal(12.5, tiles[0].CloudCover)
	assert.Equal(map[string]any{"platform": "S2A"}, tiles[0].Metadata)
	assert.Len(tiles[0].Bounds, 1)

	assert.Equal(time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), tiles[1].SensedAt)
	assert.Nil(tiles[1].Metadata)

	assert.Equal([]string{"bad_date", "bad_cloud", "point"},
		[]string{diags[0].Name, diags[1].Name, diags[2].Name})
	for _, d := range diags {
		assert.Equal(errcode.CatalogImportError, d.Code)
	}
}

func TestReadTilesEmpty(t *testing.T) {
	_, _, err := iocatalog.ReadTiles(
		strings.NewReader(`{"type":"FeatureCollection","features":[]}`), "empty.geojson")
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CatalogImportError, gnErr.Code)
}
