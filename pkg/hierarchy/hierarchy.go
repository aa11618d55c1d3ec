// Package hierarchy links flat administrative boundaries into a
// country/province/district/ward tree.
package hierarchy

import (
	"slices"
	"strings"

	"github.com/gnames/gnaoi/pkg/aoi"
	"golang.org/x/text/cases"
)

// levelColumns are column names that indicate a level, indexed by
// aoi.Level.
var levelColumns = [4][]string{
	{"name_0", "country", "country_name"},
	{"name_1", "province", "province_name", "state"},
	{"name_2", "district", "district_name"},
	{"name_3", "ward", "ward_name"},
}

// DetectLevel guesses the level of a boundary set from its attribute
// column names. Unknown combinations return aoi.District.
func DetectLevel(columns []string) aoi.Level {
	var has [4]bool
	for _, c := range columns {
		c = strings.ToLower(strings.TrimSpace(c))
		for l, names := range levelColumns {
			if slices.Contains(names, c) {
				has[l] = true
			}
		}
	}

	switch {
	case has[aoi.Ward]:
		return aoi.Ward
	case has[aoi.District]:
		return aoi.District
	case has[aoi.Province]:
		return aoi.Province
	case has[aoi.Country]:
		return aoi.Country
	default:
		return aoi.District
	}
}

// Names extracts hierarchical names from attributes. Column names are
// compared case-insensitively, name_N columns take precedence.
func Names(attrs map[string]string) [4]string {
	lower := make(map[string]string, len(attrs))
	for k, v := range attrs {
		lower[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	var res [4]string
	for l, names := range levelColumns {
		for _, n := range names {
			if v := lower[n]; v != "" {
				res[l] = v
				break
			}
		}
	}
	return res
}

// Link is a parent reference between two boundaries of a set, given as
// indices in BoundarySet.Boundaries.
type Link struct {
	Child  int `json:"child"`
	Parent int `json:"parent"`
}

// Summary describes a boundary set after linking.
type Summary struct {
	Total int `json:"total"`

	// Levels are the levels present in the set, top down.
	Levels []aoi.Level `json:"levels"`

	// Linked is the number of boundaries that received a parent.
	Linked int `json:"linked"`

	// Roots is the number of boundaries without a parent.
	Roots int `json:"roots"`
}

// Build assigns parents to the boundaries of bs. Existing links are
// cleared first, so running Build again gives the same result.
// A child at level L is linked to the first boundary at level L-1 which
// name matches the child's name for L-1 under Unicode case folding.
func Build(bs *aoi.BoundarySet) (Summary, []Link) {
	fold := cases.Fold()
	byLevel := make(map[aoi.Level][]int)
	for i := range bs.Boundaries {
		bs.Boundaries[i].Parent = nil
		l := bs.Boundaries[i].Level
		byLevel[l] = append(byLevel[l], i)
	}

	var links []Link
	for _, l := range aoi.Levels[1:] {
		parents := byLevel[l-1]
		if len(parents) == 0 {
			continue
		}
		for _, ci := range byLevel[l] {
			child := &bs.Boundaries[ci]
			want := fold.String(strings.TrimSpace(child.Names[l-1]))
			if want == "" {
				continue
			}
			for _, pi := range parents {
				if fold.String(strings.TrimSpace(bs.Boundaries[pi].Name)) == want {
					p := pi
					child.Parent = &p
					links = append(links, Link{Child: ci, Parent: pi})
					break
				}
			}
		}
	}

	res := Summary{Total: len(bs.Boundaries), Linked: len(links)}
	res.Roots = res.Total - res.Linked
	for _, l := range aoi.Levels {
		if len(byLevel[l]) > 0 {
			res.Levels = append(res.Levels, l)
		}
	}
	return res, links
}
