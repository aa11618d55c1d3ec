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
	"context"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/ioschema"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/schema"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the schema migrate command.
func getMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate database schema to latest version",
		Long: `Migrate updates the database schema to the latest version.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks which GNaoi tables exist
  3. Runs GORM AutoMigrate to update schema
  4. Adds missing geometry columns and GIST indexes

Existing data is preserved, columns and tables are never dropped.

Examples:
  gnaoi schema migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, args)
		},
	}

	return migrateCmd
}

// missingTables returns gnaoi tables that do not exist yet.
func missingTables(ctx context.Context, op db.Operator) ([]string, error) {
	var res []string
	for _, t := range schema.TableNames() {
		exists, err := op.TableExists(ctx, t)
		if err != nil {
			return nil, err
		}
		if !exists {
			res = append(res, t)
		}
	}
	return res, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	missing, err := missingTables(ctx, op)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if len(missing) == len(schema.TableNames()) {
		gn.Warn(`Warning: Database has no GNaoi tables.
	Run 'gnaoi schema create' first to initialize the schema.`)
		return nil
	}
	if len(missing) > 0 {
		gn.Info("Tables to be added: %s", strings.Join(missing, ", "))
	}

	sm := ioschema.NewManager(op)

	gn.Info("Migrating schema to latest version...")
	if err := sm.Migrate(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Schema is now up to date.")
	return nil
}
