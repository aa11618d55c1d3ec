package config

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Catalog.Kind
	if s != "" {
		res = append(res, OptCatalogKind(s))
	}
	s = c.Catalog.Path
	if s != "" {
		res = append(res, OptCatalogPath(s))
	}

	i = c.Archive.MaxFiles
	if i > 0 {
		res = append(res, OptArchiveMaxFiles(i))
	}
	if c.Archive.MaxBytes > 0 {
		res = append(res, OptArchiveMaxBytes(c.Archive.MaxBytes))
	}

	f = c.Geometry.MaxAreaKm2
	if f > 0 {
		res = append(res, OptGeometryMaxAreaKm2(f))
	}

	i = c.Selection.MaxTiles
	if i > 0 {
		res = append(res, OptSelectionMaxTiles(i))
	}
	f = c.Selection.CoverageTarget
	if f > 0 {
		res = append(res, OptSelectionCoverageTarget(f))
	}
	sel := c.Selection
	if sel.WeightCoverage+sel.WeightCloud+sel.WeightRecency > 0 {
		res = append(res, OptSelectionWeights(
			sel.WeightCoverage, sel.WeightCloud, sel.WeightRecency,
		))
	}

	s = c.S3.Endpoint
	if s != "" {
		res = append(res, OptS3Endpoint(s))
	}
	s = c.S3.Region
	if s != "" {
		res = append(res, OptS3Region(s))
	}
	if c.S3.AccessKey != "" && c.S3.SecretKey != "" {
		res = append(res, OptS3Credentials(c.S3.AccessKey, c.S3.SecretKey))
	}
	if c.S3.UsePathStyle {
		res = append(res, OptS3UsePathStyle(true))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidInt64(name string, i int64) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidFloat(name string, f float64) bool {
	res := f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %v", name, f)
	}
	return res
}

func isValidPercent(name string, f float64) bool {
	res := f > 0 && f <= 100
	if !res {
		gn.Warn("<em>%s</em> has to be within (0, 100], ignoring %v", name, f)
	}
	return res
}

func isValidWeights(ww ...float64) bool {
	var sum float64
	for _, w := range ww {
		if w < 0 {
			gn.Warn("Selection weights cannot be negative, ignoring %v", ww)
			return false
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		gn.Warn("Selection weights have to sum to 1, ignoring %v", ww)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Catalog.Kind":    {"sqlite": s, "postgres": s, "memory": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
