package geom_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
	"github.com/gnames/gnaoi/pkg/geom"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	return gnErr.Code
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg  string
		in   orb.Geometry
		len  int
		code gn.ErrorCode
	}{
		{"polygon is wrapped", square(0, 0, 1), 1, 0},
		{"multipolygon is kept",
			orb.MultiPolygon{square(0, 0, 1), square(2, 2, 1)}, 2, 0},
		{"point is rejected", orb.Point{1, 1}, 0,
			errcode.UnsupportedGeometryTypeError},
		{"line is rejected", orb.LineString{{0, 0}, {1, 1}}, 0,
			errcode.UnsupportedGeometryTypeError},
		{"nil is empty", nil, 0, errcode.InvalidGeometryError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, err := geom.Normalize(v.in)
			if v.code != 0 {
				require.Error(t, err)
				assert.Equal(t, v.code, errCode(t, err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, res, v.len)
		})
	}
}

func TestAreaKm2(t *testing.T) {
	tests := []struct {
		msg   string
		mp    orb.MultiPolygon
		area  float64
		delta float64
	}{
		{"empty", nil, 0, 0},
		{"0.1 degree square at 19S",
			orb.MultiPolygon{square(29.0, -19.0, 0.1)}, 117.2, 1.5},
		{"1 degree square at equator",
			orb.MultiPolygon{square(0, 0, 1)}, 12_391, 60},
		{"hole is subtracted", orb.MultiPolygon{{
			square(0, 0, 1)[0],
			orb.Ring{{0.25, 0.25}, {0.25, 0.75}, {0.75, 0.75}, {0.75, 0.25}, {0.25, 0.25}},
		}}, 12_391 * 0.75, 60},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.InDelta(t, v.area, geom.AreaKm2(v.mp), v.delta)
		})
	}
}

func TestValidate(t *testing.T) {
	v := geom.NewValidator(10_000)

	tests := []struct {
		msg  string
		mp   orb.MultiPolygon
		code gn.ErrorCode
	}{
		{"valid AOI", orb.MultiPolygon{square(29.0, -19.0, 0.1)}, 0},
		{"empty", orb.MultiPolygon{}, errcode.InvalidGeometryError},
		{"self-intersection", orb.MultiPolygon{{{
			{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0},
		}}}, errcode.InvalidGeometryError},
		{"unclosed ring", orb.MultiPolygon{{{
			{0, 0}, {0.1, 0}, {0.1, 0.1}, {0, 0.1},
		}}}, errcode.InvalidGeometryError},
		{"too few points", orb.MultiPolygon{{{
			{0, 0}, {0.1, 0}, {0, 0},
		}}}, errcode.InvalidGeometryError},
		{"longitude out of range",
			orb.MultiPolygon{square(190, 0, 0.1)}, errcode.CoordinateOutOfRangeError},
		{"latitude out of range",
			orb.MultiPolygon{square(10, 89.95, 0.1)}, errcode.CoordinateOutOfRangeError},
		{"too large", orb.MultiPolygon{square(0, 0, 2)}, errcode.GeometryTooLargeError},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := v.Validate(tt.mp)
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, errCode(t, err))
		})
	}
}

func TestValidateCeiling(t *testing.T) {
	mp := orb.MultiPolygon{square(29.0, -19.0, 0.1)}

	err := geom.NewValidator(100).Validate(mp)
	require.Error(t, err)
	assert.Equal(t, errcode.GeometryTooLargeError, errCode(t, err))

	assert.NoError(t, geom.NewValidator(200).Validate(mp))
	assert.Equal(t, geom.DefaultMaxAreaKm2, geom.NewValidator(0).MaxAreaKm2())
}

func TestInspect(t *testing.T) {
	v := geom.NewValidator(10_000)

	t.Run("accumulates all failures", func(t *testing.T) {
		errs := v.Inspect(orb.MultiPolygon{square(170, 0, 30)})
		require.Len(t, errs, 2)
		assert.Equal(t, errcode.CoordinateOutOfRangeError, errCode(t, errs[0]))
		assert.Equal(t, errcode.GeometryTooLargeError, errCode(t, errs[1]))
	})

	t.Run("valid geometry has no failures", func(t *testing.T) {
		assert.Empty(t, v.Inspect(orb.MultiPolygon{square(0, 0, 0.5)}))
	})
}

func TestIntersect(t *testing.T) {
	aoi := orb.MultiPolygon{square(0, 0, 1)}

	t.Run("full coverage", func(t *testing.T) {
		res, err := geom.Intersect(aoi, orb.MultiPolygon{square(-0.5, -0.5, 2)})
		require.NoError(t, err)
		assert.True(t, res.Intersects)
		assert.True(t, res.Defined)
		assert.InDelta(t, 1.0, res.Fraction, 1e-6)
	})

	t.Run("half coverage", func(t *testing.T) {
		tile := orb.MultiPolygon{{{
			{0.5, -1}, {2, -1}, {2, 2}, {0.5, 2}, {0.5, -1},
		}}}
		res, err := geom.Intersect(aoi, tile)
		require.NoError(t, err)
		assert.True(t, res.Intersects)
		assert.InDelta(t, 0.5, res.Fraction, 1e-3)
		assert.InDelta(t, res.AOIKm2/2, res.IntersectionKm2, res.AOIKm2*1e-3)
	})

	t.Run("self intersection keeps vertices", func(t *testing.T) {
		res, err := geom.Intersect(aoi, aoi)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.Fraction, 1e-9)
		assert.InDelta(t, res.AOIKm2, res.IntersectionKm2, 1e-6)
	})

	t.Run("disjoint", func(t *testing.T) {
		res, err := geom.Intersect(aoi, orb.MultiPolygon{square(5, 5, 1)})
		require.NoError(t, err)
		assert.False(t, res.Intersects)
		assert.Equal(t, 0.0, res.Fraction)
		assert.True(t, res.Defined)
	})

	t.Run("zero-area AOI has no coverage", func(t *testing.T) {
		flat := orb.MultiPolygon{{{{0, 0}, {1, 0}, {2, 0}, {0, 0}}}}
		res, err := geom.Intersect(flat, orb.MultiPolygon{square(5, 5, 1)})
		require.NoError(t, err)
		assert.False(t, res.Defined)
	})

	t.Run("zero-area AOI inside a tile", func(t *testing.T) {
		flat := orb.MultiPolygon{{{{0.2, 0.5}, {0.5, 0.5}, {0.8, 0.5}, {0.2, 0.5}}}}
		res, err := geom.Intersect(flat, orb.MultiPolygon{square(0, 0, 1)})
		require.NoError(t, err)
		assert.True(t, res.Intersects)
		assert.False(t, res.Defined)
		assert.Zero(t, res.Fraction)
		assert.Zero(t, res.IntersectionKm2)
	})

	t.Run("unclosed ring fails in GEOS", func(t *testing.T) {
		open := orb.MultiPolygon{{{{0.2, 0.2}, {0.8, 0.2}, {0.8, 0.8}, {0.2, 0.8}}}}
		res, err := geom.Intersect(aoi, open)
		require.Error(t, err)
		assert.Equal(t, errcode.CoverageError, errCode(t, err))
		assert.False(t, res.Intersects)
		assert.True(t, res.Defined)
	})

	t.Run("bowtie tile does not panic", func(t *testing.T) {
		bowtie := orb.MultiPolygon{{{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}}}
		assert.NotPanics(t, func() {
			_, err := geom.Intersect(aoi, bowtie)
			if err != nil {
				assert.Equal(t, errcode.CoverageError, errCode(t, err))
			}
		})
	})
}

func TestCentroid(t *testing.T) {
	c := geom.Centroid(orb.MultiPolygon{square(0, 0, 2)})
	assert.InDelta(t, 1.0, c.X(), 1e-9)
	assert.InDelta(t, 1.0, c.Y(), 1e-9)
}
