// Package config provides configuration management for GNaoi.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Catalog: kind, path
//   - Archive: max_files, max_bytes
//   - Geometry: max_area_km2
//   - Selection: max_tiles, coverage_target, weights
//   - S3: endpoint, region, access_key, secret_key, use_path_style
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNAOI_ prefix with underscores for nesting:
//
//	GNAOI_DATABASE_HOST=localhost
//	GNAOI_CATALOG_KIND=sqlite
//	GNAOI_GEOMETRY_MAX_AREA_KM2=10000
//	GNAOI_LOG_LEVEL=info
//	GNAOI_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNaoi configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Catalog determines where satellite tiles are looked up.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Archive contains limits for archive extraction.
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`

	// Geometry contains geometry validation settings.
	Geometry GeometryConfig `mapstructure:"geometry" yaml:"geometry"`

	// Selection contains tile scoring and selection settings.
	Selection SelectionConfig `mapstructure:"selection" yaml:"selection"`

	// S3 contains settings for S3-compatible object storage.
	S3 S3Config `mapstructure:"s3" yaml:"s3"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records saved per batch
	// when AOIs, boundaries or tiles are stored.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// CatalogConfig selects the catalog backend.
type CatalogConfig struct {
	// Kind is one of "sqlite", "postgres" or "memory".
	Kind string `mapstructure:"kind" yaml:"kind"`

	// Path is the SQLite catalog file. If empty, catalog.sqlite
	// in the cache directory is used.
	Path string `mapstructure:"path" yaml:"path"`
}

// ArchiveConfig limits what an uploaded archive may expand to.
type ArchiveConfig struct {
	// MaxFiles is the largest number of entries extracted from
	// one archive.
	MaxFiles int `mapstructure:"max_files" yaml:"max_files"`

	// MaxBytes is the largest total decompressed size of one archive.
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// GeometryConfig contains geometry validation settings.
type GeometryConfig struct {
	// MaxAreaKm2 is the area ceiling for a single AOI.
	MaxAreaKm2 float64 `mapstructure:"max_area_km2" yaml:"max_area_km2"`
}

// SelectionConfig contains settings of the tile selector.
type SelectionConfig struct {
	// MaxTiles is the largest number of tiles in one selection.
	MaxTiles int `mapstructure:"max_tiles" yaml:"max_tiles"`

	// CoverageTarget is the cumulative coverage score (0-100) at which
	// greedy selection stops.
	CoverageTarget float64 `mapstructure:"coverage_target" yaml:"coverage_target"`

	// WeightCoverage is the weight of the coverage sub-score.
	WeightCoverage float64 `mapstructure:"weight_coverage" yaml:"weight_coverage"`

	// WeightCloud is the weight of the cloud sub-score.
	WeightCloud float64 `mapstructure:"weight_cloud" yaml:"weight_cloud"`

	// WeightRecency is the weight of the recency sub-score.
	WeightRecency float64 `mapstructure:"weight_recency" yaml:"weight_recency"`
}

// S3Config contains credentials and endpoint of S3-compatible storage.
type S3Config struct {
	Endpoint     string `mapstructure:"endpoint"       yaml:"endpoint"`
	Region       string `mapstructure:"region"         yaml:"region"`
	AccessKey    string `mapstructure:"access_key"     yaml:"access_key"`
	SecretKey    string `mapstructure:"secret_key"     yaml:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnaoi",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Catalog: CatalogConfig{
			Kind: "sqlite",
		},
		Archive: ArchiveConfig{
			MaxFiles: 1_000,
			MaxBytes: 512 << 20,
		},
		Geometry: GeometryConfig{
			MaxAreaKm2: 10_000,
		},
		Selection: SelectionConfig{
			MaxTiles:       10,
			CoverageTarget: 95,
			WeightCoverage: 0.4,
			WeightCloud:    0.3,
			WeightRecency:  0.3,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
