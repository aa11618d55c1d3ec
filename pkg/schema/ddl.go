package schema

import (
	"fmt"
)

// SpatialDDL returns statements that add a generated PostGIS geometry
// column computed from WKB and a GIST index on it. The statements are
// idempotent.
func SpatialDDL(t SpatialTable) []string {
	table := t.TableName()
	return []string{
		fmt.Sprintf(
			"ALTER TABLE %s ADD COLUMN IF NOT EXISTS geom "+
				"geometry(%s, %d) GENERATED ALWAYS AS "+
				"(ST_SetSRID(ST_GeomFromWKB(wkb), %d)) STORED",
			table, t.GeometryType(), SRID, SRID,
		),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s_geom_idx ON %s USING GIST (geom)",
			table, table,
		),
	}
}
