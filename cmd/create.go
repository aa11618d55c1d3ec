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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/ioschema"
	"github.com/gnames/gnaoi/pkg/db"
	"github.com/gnames/gnaoi/pkg/schema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the schema create command.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the GNaoi database schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reports stored AOIs, boundaries and catalog tiles and prompts
     for confirmation before dropping them
  3. Enables the PostGIS extension
  4. Creates tables using GORM AutoMigrate
  5. Adds generated geometry columns with GIST indexes

Tables: ` + strings.Join(schema.TableNames(), ", ") + `

Geometries are stored as WKB, the geometry columns are derived
from it with SRID 4326.

Use --force to skip confirmation and drop existing tables.

Examples:
  gnaoi schema create
  gnaoi schema create --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

// tableRows is the number of rows stored in a gnaoi table.
type tableRows struct {
	table string
	rows  int64
}

// storedData returns row counts of existing gnaoi tables.
func storedData(ctx context.Context, op db.Operator) ([]tableRows, error) {
	var res []tableRows
	for _, t := range schema.TableNames() {
		exists, err := op.TableExists(ctx, t)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		n, err := op.CountRows(ctx, t)
		if err != nil {
			return nil, err
		}
		res = append(res, tableRows{table: t, rows: n})
	}
	return res, nil
}

// dropWarning describes what is lost when the schema is recreated.
func dropWarning(stored []tableRows) string {
	var sb strings.Builder
	sb.WriteString("\nWarning: Database contains existing tables.\n")
	if len(stored) == 0 {
		sb.WriteString("No GNaoi tables found, other tables in the public schema ")
		sb.WriteString("will be dropped.")
		return sb.String()
	}
	sb.WriteString("Creating schema will drop ALL tables, including:\n")
	for _, v := range stored {
		fmt.Fprintf(&sb, "  %-14s %s rows\n", v.table, humanize.Comma(v.rows))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// confirm reads a yes/no answer.
func confirm(r io.Reader) (bool, error) {
	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}

func runCreate(
	cmd *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if hasTables {
		if !force {
			stored, err := storedData(ctx, op)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			gn.Warn(dropWarning(stored))
			fmt.Fprint(cmd.OutOrStdout(), "\nDo you want to continue? (yes/no): ")

			ok, err := confirm(cmd.InOrStdin())
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}
			if !ok {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}

		gn.Info("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	sm := ioschema.NewManager(op)

	gn.Info("Creating schema...")
	if err := sm.Create(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nCreated tables: %s", strings.Join(schema.TableNames(), ", "))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'gnaoi catalog import --catalog postgres' to load tiles")
	gn.Info("  - Run 'gnaoi ingest --store' to save AOIs")
	gn.Info("  - Run 'gnaoi boundaries --store' to save boundary sets")

	return nil
}
