package geom

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"
)

// Coverage describes how much of an AOI is covered by another polygon.
type Coverage struct {
	// Intersects is true if the geometries share at least one point.
	Intersects bool

	// Intersection is the polygonal part of the intersection.
	Intersection orb.MultiPolygon

	IntersectionKm2 float64
	AOIKm2          float64

	// Fraction is IntersectionKm2/AOIKm2. It is meaningful only
	// when Defined is true.
	Fraction float64

	// Defined is false when AOI has zero area.
	Defined bool
}

// Intersect computes the intersection of an AOI with another polygon and
// the covered fraction of the AOI. Bounding boxes are compared first,
// GEOS is called only for overlapping boxes. GEOS failures are returned
// as CoverageError.
func Intersect(aoi, other orb.MultiPolygon) (Coverage, error) {
	res := Coverage{AOIKm2: AreaKm2(aoi)}
	res.Defined = res.AOIKm2 > 0

	if len(aoi) == 0 || len(other) == 0 ||
		!aoi.Bound().Intersects(other.Bound()) {
		return res, nil
	}

	inter, intersects, err := geosIntersection(aoi, other)
	if err != nil {
		return res, CoverageError(err)
	}
	res.Intersects = intersects
	res.Intersection = inter
	res.IntersectionKm2 = AreaKm2(inter)
	if res.Defined {
		res.Fraction = res.IntersectionKm2 / res.AOIKm2
	}
	return res, nil
}

func geosIntersection(
	a, b orb.MultiPolygon,
) (res orb.MultiPolygon, intersects bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geos: %v", r)
		}
	}()

	gctx := geos.NewContext()
	ga, err := toGEOS(gctx, a)
	if err != nil {
		return nil, false, err
	}
	defer ga.Destroy()
	gb, err := toGEOS(gctx, b)
	if err != nil {
		return nil, false, err
	}
	defer gb.Destroy()

	if !ga.Intersects(gb) {
		return nil, false, nil
	}
	gi := ga.Intersection(gb)
	defer gi.Destroy()
	res, err = fromGEOS(gi)
	return res, true, err
}
