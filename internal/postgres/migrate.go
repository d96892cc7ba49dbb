package postgres

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"

	ierr "github.com/flexprice/invoicer/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema files in name order. Every file is
// idempotent so reruns are harmless.
func (db *DB) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return ierr.WithError(err).
				WithHintf("Migration %s failed", name).
				Mark(ierr.ErrDatabase)
		}
		db.logger.Infow("applied migration", "file", name)
	}
	return nil
}

// WriteMigrations prints every embedded schema file to w, in apply order
func WriteMigrations(w io.Writer) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "-- %s\n%s\n", name, body); err != nil {
			return err
		}
	}
	return nil
}
