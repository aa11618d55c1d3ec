// Package iotesting provides shared test utilities: configuration for
// integration tests, archive builders and sample geometries.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gnames/gnaoi/pkg/config"
	"github.com/jackc/pgx/v5"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnaoi_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings can be overridden by GNAOI_DATABASE_* environment
// variables, the database name is always TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()
	var opts []config.Option
	if s := os.Getenv("GNAOI_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNAOI_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("GNAOI_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNAOI_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// SkipWithoutDatabase skips integration tests in short mode or when the
// test database is not reachable.
func SkipWithoutDatabase(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg := GetTestConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		t.Skipf("Test database is not available: %v", err)
	}
	conn.Close(ctx)
	return cfg
}
