package aoi

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Level is an administrative level of a boundary.
type Level int

const (
	Country Level = iota
	Province
	District
	Ward
)

// Levels lists administrative levels from the top down.
var Levels = []Level{Country, Province, District, Ward}

var levelNames = []string{"country", "province", "district", "ward"}

// String returns lowercase name of the level.
func (l Level) String() string {
	if l < Country || l > Ward {
		return "unknown"
	}
	return levelNames[l]
}

// NewLevel converts a name to a Level. Unknown names return
// District and false.
func NewLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range levelNames {
		if v == s {
			return Level(i), true
		}
	}
	return District, false
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(bs []byte) error {
	lvl, ok := NewLevel(string(bs))
	if !ok {
		return fmt.Errorf("unknown administrative level %q", string(bs))
	}
	*l = lvl
	return nil
}

// Boundary is one administrative area of a BoundarySet.
type Boundary struct {
	Level Level  `json:"level"`
	Name  string `json:"name"`

	// Names keeps hierarchical names name_0..name_3, where index
	// corresponds to Level.
	Names [4]string `json:"names"`

	Geometry orb.MultiPolygon `json:"-"`

	// Parent is an index of the parent boundary in
	// BoundarySet.Boundaries. It is set only by the hierarchy builder.
	Parent *int `json:"parent,omitempty"`

	Attributes map[string]string `json:"attributes,omitempty"`
}

// BoundarySet is a collection of boundaries from one upload.
type BoundarySet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`

	// Level is the level detected from the attribute columns.
	Level Level `json:"level"`

	// Columns are attribute column names of the source.
	Columns []string `json:"columns,omitempty"`

	Boundaries []Boundary `json:"boundaries"`
}
