package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Database constraint violations

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate database schema

<em>How to fix:</em>
  1. Check database user permissions
  2. Backup data and recreate schema with <em>gnaoi schema create</em>`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// ExtensionError is returned when a PostgreSQL extension
// cannot be enabled.
func ExtensionError(name string, err error) error {
	msg := `Cannot enable PostgreSQL extension <em>%s</em>

<em>Possible causes:</em>
  - PostGIS is not installed on the database server
  - Database user is not allowed to create extensions

<em>How to fix:</em>
  1. Install PostGIS, for example <em>apt install postgresql-16-postgis-3</em>
  2. Run <em>CREATE EXTENSION postgis</em> as a superuser`

	return &gn.Error{
		Code: errcode.SchemaExtensionError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to create extension %s: %w", name, err),
	}
}

// SpatialColumnError is returned when a geometry column or
// its index cannot be created.
func SpatialColumnError(table string, err error) error {
	msg := `Cannot add geometry column to <em>%s</em>

<em>How to fix:</em>
  Make sure PostGIS extension is enabled in the database`

	return &gn.Error{
		Code: errcode.SchemaExtensionError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to add geometry to %s: %w", table, err),
	}
}
