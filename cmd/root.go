/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iofs"
	"github.com/gnames/gnaoi/internal/iologger"
	app "github.com/gnames/gnaoi/pkg"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnaoi",
		Short:   "GNaoi ingests areas of interest and matches them to satellite tiles",
		Long: `GNaoi turns uploaded spatial files into validated areas of interest
(AOIs) and selects satellite catalog tiles that cover them.

Features:
  - Ingestion: zip, tar, tar.gz, tar.bz2, tar.xz, 7z and rar archives,
    shapefiles and GeoJSON, local paths or s3:// locations
  - Validation: geometry type, coordinate range, topology and area
  - Boundaries: administrative boundary sets with parent links
  - Selection: coverage, cloud and recency ranking of catalog tiles

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNAOI_*)
  3. Config file (~/.config/gnaoi/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> GNAOI_DATABASE_HOST).

  Examples:
    GNAOI_DATABASE_HOST             PostgreSQL host
    GNAOI_CATALOG_KIND              sqlite, postgres or memory
    GNAOI_GEOMETRY_MAX_AREA_KM2     AOI area ceiling
    GNAOI_S3_ENDPOINT               S3-compatible endpoint
    GNAOI_LOG_LEVEL                 debug, info, warn or error`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnaoi version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnaoi")

	rootCmd.PersistentFlags().IntP("jobs", "j", 0,
		"number of concurrent workers (default from config)")
	rootCmd.PersistentFlags().StringP("catalog", "c", "",
		"catalog kind: sqlite, postgres or memory")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn or error")

	rootCmd.AddCommand(
		getIngestCmd(),
		getBoundariesCmd(),
		getCatalogCmd(),
		getSelectCmd(),
		getSchemaCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	opts = append(opts, flagOptions(cmd)...)
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"catalog", cfg.Catalog.Kind,
		"jobs", cfg.JobsNumber,
	)
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}
	return &res, nil
}

// envKeys are configuration keys that can be set by GNAOI_*
// environment variables. They match the fields of config.ToOptions().
var envKeys = []string{
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.batch_size",

	"catalog.kind",
	"catalog.path",

	"archive.max_files",
	"archive.max_bytes",

	"geometry.max_area_km2",

	"selection.max_tiles",
	"selection.coverage_target",
	"selection.weight_coverage",
	"selection.weight_cloud",
	"selection.weight_recency",

	"s3.endpoint",
	"s3.region",
	"s3.access_key",
	"s3.secret_key",
	"s3.use_path_style",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}

func initEnvVars(v *viper.Viper) {
	// Keys are bound one by one so the list of allowed variables
	// stays explicit.
	v.SetEnvPrefix("GNAOI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
}
