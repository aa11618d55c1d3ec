package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records saved per batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptCatalogKind sets the catalog backend.
// Valid values: "sqlite", "postgres", "memory".
func OptCatalogKind(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Catalog.Kind", s) {
			c.Catalog.Kind = s
		}
	}
}

// OptCatalogPath sets the path to the SQLite catalog file.
func OptCatalogPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Path", s) {
			c.Catalog.Path = s
		}
	}
}

// OptArchiveMaxFiles sets the largest number of extracted entries.
func OptArchiveMaxFiles(i int) Option {
	return func(c *Config) {
		if isValidInt("Archive Max Files", i) {
			c.Archive.MaxFiles = i
		}
	}
}

// OptArchiveMaxBytes sets the largest total decompressed size.
func OptArchiveMaxBytes(i int64) Option {
	return func(c *Config) {
		if isValidInt64("Archive Max Bytes", i) {
			c.Archive.MaxBytes = i
		}
	}
}

// OptGeometryMaxAreaKm2 sets the area ceiling of an AOI.
func OptGeometryMaxAreaKm2(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Geometry Max Area", f) {
			c.Geometry.MaxAreaKm2 = f
		}
	}
}

// OptSelectionMaxTiles sets the largest number of selected tiles.
func OptSelectionMaxTiles(i int) Option {
	return func(c *Config) {
		if isValidInt("Selection Max Tiles", i) {
			c.Selection.MaxTiles = i
		}
	}
}

// OptSelectionCoverageTarget sets the cumulative coverage score
// that ends the selection. Must be in (0, 100].
func OptSelectionCoverageTarget(f float64) Option {
	return func(c *Config) {
		if isValidPercent("Selection Coverage Target", f) {
			c.Selection.CoverageTarget = f
		}
	}
}

// OptSelectionWeights sets weights of coverage, cloud and recency
// sub-scores. Weights must be non-negative and sum to 1.
func OptSelectionWeights(coverage, cloud, recency float64) Option {
	return func(c *Config) {
		if isValidWeights(coverage, cloud, recency) {
			c.Selection.WeightCoverage = coverage
			c.Selection.WeightCloud = cloud
			c.Selection.WeightRecency = recency
		}
	}
}

// OptS3Endpoint sets a custom endpoint (MinIO, R2 and the like).
func OptS3Endpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Endpoint", s) {
			c.S3.Endpoint = s
		}
	}
}

// OptS3Region sets the region of the object storage.
func OptS3Region(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Region", s) {
			c.S3.Region = s
		}
	}
}

// OptS3Credentials sets static credentials for the object storage.
func OptS3Credentials(key, secret string) Option {
	key = strings.TrimSpace(key)
	secret = strings.TrimSpace(secret)
	return func(c *Config) {
		if isValidString("S3 Access Key", key) &&
			isValidString("S3 Secret Key", secret) {
			c.S3.AccessKey = key
			c.S3.SecretKey = secret
		}
	}
}

// OptS3UsePathStyle toggles path-style bucket addressing.
func OptS3UsePathStyle(b bool) Option {
	return func(c *Config) {
		c.S3.UsePathStyle = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
