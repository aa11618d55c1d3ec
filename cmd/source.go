package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/gnames/gnaoi/internal/iodb"
	"github.com/gnames/gnaoi/internal/iofs"
	"github.com/gnames/gnaoi/internal/ios3"
	"github.com/gnames/gnaoi/pkg/db"
)

// openSource opens a local file or an s3:// object. It returns the
// reader and the file name used for format detection.
func openSource(ctx context.Context, path string) (io.ReadCloser, string, error) {
	if !ios3.IsURI(path) {
		f, err := iofs.Open(path)
		if err != nil {
			return nil, "", err
		}
		return f, filepath.Base(path), nil
	}

	loc, err := ios3.ParseURI(path)
	if err != nil {
		return nil, "", err
	}
	client, err := ios3.New(ctx, cfg.S3)
	if err != nil {
		return nil, "", err
	}
	r, err := client.Open(ctx, loc)
	if err != nil {
		return nil, "", err
	}
	return r, loc.Name(), nil
}

// connect opens a database connection with configured settings.
func connect(ctx context.Context) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	slog.Info("Connected to database",
		"user", cfg.Database.User, "host", cfg.Database.Host,
		"port", cfg.Database.Port, "database", cfg.Database.Database)
	return op, nil
}
