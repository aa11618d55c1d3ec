package geom

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"
)

// Validator checks AOI geometries. The zero value is not usable,
// create it with NewValidator.
type Validator struct {
	maxAreaKm2 float64
}

// NewValidator creates a Validator with the given area ceiling.
// Non-positive ceiling falls back to DefaultMaxAreaKm2.
func NewValidator(maxAreaKm2 float64) Validator {
	if maxAreaKm2 <= 0 {
		maxAreaKm2 = DefaultMaxAreaKm2
	}
	return Validator{maxAreaKm2: maxAreaKm2}
}

// MaxAreaKm2 returns the area ceiling.
func (v Validator) MaxAreaKm2() float64 {
	return v.maxAreaKm2
}

// Validate runs checks in order (emptiness, topology, coordinate
// bounds, area) and returns the first failure.
func (v Validator) Validate(mp orb.MultiPolygon) error {
	errs := v.check(mp, true)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Inspect runs all checks and returns every failure. An empty geometry
// stops the inspection because other checks are meaningless for it.
func (v Validator) Inspect(mp orb.MultiPolygon) []error {
	return v.check(mp, false)
}

func (v Validator) check(mp orb.MultiPolygon, first bool) []error {
	var res []error
	if isEmpty(mp) {
		return []error{EmptyGeometryError()}
	}

	if err := topology(mp); err != nil {
		res = append(res, err)
		if first {
			return res
		}
	}

	if err := bounds(mp); err != nil {
		res = append(res, err)
		if first {
			return res
		}
	}

	if area := AreaKm2(mp); area > v.maxAreaKm2 {
		res = append(res, GeometryTooLargeError(area, v.maxAreaKm2))
	}
	return res
}

func isEmpty(mp orb.MultiPolygon) bool {
	if len(mp) == 0 {
		return true
	}
	for _, p := range mp {
		if len(p) == 0 || len(p[0]) == 0 {
			return true
		}
	}
	return false
}

// topology checks ring closure in orb and the rest with GEOS.
func topology(mp orb.MultiPolygon) error {
	for i, poly := range mp {
		for j, ring := range poly {
			if len(ring) < 4 {
				return InvalidGeometryError(
					fmt.Sprintf("ring %d of polygon %d has %d points, need at least 4",
						j+1, i+1, len(ring)),
				)
			}
			if !ring.Closed() {
				return InvalidGeometryError(
					fmt.Sprintf("ring %d of polygon %d is not closed", j+1, i+1),
				)
			}
		}
	}

	reason, err := geosValidity(mp)
	if err != nil {
		return InvalidGeometryError(err.Error())
	}
	if reason != "" {
		return InvalidGeometryError(reason)
	}
	return nil
}

// geosValidity returns an empty string for valid geometries and
// GEOS' reason otherwise.
func geosValidity(mp orb.MultiPolygon) (reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geos: %v", r)
		}
	}()
	gctx := geos.NewContext()
	g, err := toGEOS(gctx, mp)
	if err != nil {
		return "", err
	}
	defer g.Destroy()
	if g.IsValid() {
		return "", nil
	}
	return g.IsValidReason(), nil
}

func bounds(mp orb.MultiPolygon) error {
	for _, poly := range mp {
		for _, ring := range poly {
			for _, p := range ring {
				if p[0] < -180 || p[0] > 180 || p[1] < -90 || p[1] > 90 {
					return CoordinateOutOfRangeError(p)
				}
			}
		}
	}
	return nil
}
