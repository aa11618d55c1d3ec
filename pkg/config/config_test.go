package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gnaoi/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnaoi"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnaoi"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnaoi", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "gnaoi", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "gnaoi", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		assert.Equal(t, "sqlite", cfg.Catalog.Kind)
		assert.Equal(t, 1_000, cfg.Archive.MaxFiles)
		assert.Equal(t, int64(512<<20), cfg.Archive.MaxBytes)
		assert.Equal(t, 10_000.0, cfg.Geometry.MaxAreaKm2)

		assert.Equal(t, 10, cfg.Selection.MaxTiles)
		assert.Equal(t, 95.0, cfg.Selection.CoverageTarget)
		assert.InDelta(t, 0.4, cfg.Selection.WeightCoverage, 1e-9)
		assert.InDelta(t, 0.3, cfg.Selection.WeightCloud, 1e-9)
		assert.InDelta(t, 0.3, cfg.Selection.WeightRecency, 1e-9)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost",
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionCatalogKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"postgres", "postgres", "postgres"},
		{"memory", "memory", "memory"},
		{"normalizes to lowercase", "SQLite", "sqlite"},
		{"ignores invalid value", "mysql", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptCatalogKind(tt.input)})
			assert.Equal(t, tt.expected, cfg.Catalog.Kind)
		})
	}
}

func TestOptionGeometryMaxArea(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"sets valid area", 250.5, 250.5},
		{"ignores zero", 0, 10_000},
		{"ignores negative", -1, 10_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptGeometryMaxAreaKm2(tt.input)})
			assert.Equal(t, tt.expected, cfg.Geometry.MaxAreaKm2)
		})
	}
}

func TestOptionSelection(t *testing.T) {
	t.Run("coverage target", func(t *testing.T) {
		tests := []struct {
			input    float64
			expected float64
		}{
			{80, 80},
			{100, 100},
			{101, 95},
			{0, 95},
		}
		for _, tt := range tests {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptSelectionCoverageTarget(tt.input)})
			assert.Equal(t, tt.expected, cfg.Selection.CoverageTarget)
		}
	})

	t.Run("weights", func(t *testing.T) {
		tests := []struct {
			name  string
			input [3]float64
			ok    bool
		}{
			{"valid weights", [3]float64{0.5, 0.25, 0.25}, true},
			{"do not sum to one", [3]float64{0.5, 0.5, 0.5}, false},
			{"negative weight", [3]float64{1.2, -0.1, -0.1}, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := config.New()
				opt := config.OptSelectionWeights(
					tt.input[0], tt.input[1], tt.input[2],
				)
				cfg.Update([]config.Option{opt})
				if tt.ok {
					assert.Equal(t, tt.input[0], cfg.Selection.WeightCoverage)
					assert.Equal(t, tt.input[1], cfg.Selection.WeightCloud)
					assert.Equal(t, tt.input[2], cfg.Selection.WeightRecency)
					return
				}
				assert.Equal(t, 0.4, cfg.Selection.WeightCoverage)
			})
		}
	})
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "normalizes to lowercase",
			input:    "WARN",
			expected: "warn",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestCatalogPath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t,
		filepath.Join("/home/user", ".cache", "gnaoi", "catalog.sqlite"),
		cfg.CatalogPath(),
	)

	cfg.Update([]config.Option{config.OptCatalogPath("/data/tiles.sqlite")})
	assert.Equal(t, "/data/tiles.sqlite", cfg.CatalogPath())
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseSSLMode("require"),
			config.OptCatalogKind("postgres"),
			config.OptArchiveMaxFiles(50),
			config.OptArchiveMaxBytes(1 << 20),
			config.OptGeometryMaxAreaKm2(500),
			config.OptSelectionMaxTiles(3),
			config.OptSelectionWeights(0.6, 0.2, 0.2),
			config.OptS3Endpoint("http://localhost:9000"),
			config.OptS3Credentials("key", "secret"),
			config.OptS3UsePathStyle(true),
			config.OptLogFormat("text"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Catalog, newCfg.Catalog)
		assert.Equal(t, original.Archive, newCfg.Archive)
		assert.Equal(t, original.Geometry, newCfg.Geometry)
		assert.Equal(t, original.Selection, newCfg.Selection)
		assert.Equal(t, original.S3, newCfg.S3)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/custom/home")})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
	})
}
