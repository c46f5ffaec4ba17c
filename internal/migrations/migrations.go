// Package migrations embeds the answer log schema and applies it with goose.
// Each supported SQL dialect has its own migration directory.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableName is the name of the table used by goose to track migrations.
const TableName = "schema_migrations"

// Dialect names a supported SQL dialect.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ErrUnsupportedDialect is returned for dialects without a migration set.
var ErrUnsupportedDialect = errors.New("unsupported migration dialect")

//go:embed sql
var embedded embed.FS

func (d Dialect) gooseDialect() (database.Dialect, error) {
	switch d {
	case Postgres:
		return database.DialectPostgres, nil
	case SQLite:
		return database.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, string(d))
	}
}

// FS returns the migration files of the given dialect.
func FS(d Dialect) (fs.FS, error) {
	if _, err := d.gooseDialect(); err != nil {
		return nil, err
	}
	return fs.Sub(embedded, "sql/"+string(d))
}

func newProvider(db *sql.DB, d Dialect) (*goose.Provider, error) {
	dialect, err := d.gooseDialect()
	if err != nil {
		return nil, err
	}
	fsys, err := FS(d)
	if err != nil {
		return nil, err
	}
	versions, err := database.NewStore(dialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}
	// The dialect is carried by the store, so NewProvider receives none.
	return goose.NewProvider("", db, fsys, goose.WithStore(versions))
}

// Up applies all pending migrations and returns the resulting schema version.
// The provider shares db with the caller and never closes it.
func Up(ctx context.Context, db *sql.DB, d Dialect, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", string(d)))

	provider, err := newProvider(db, d)
	if err != nil {
		log.Error("failed to create migration provider", slog.String("error", err.Error()))
		return 0, err
	}

	startTime := time.Now()
	results, err := provider.Up(ctx)
	for _, r := range results {
		attrs := []any{
			slog.Int64("version", r.Source.Version),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		}
		if r.Error != nil {
			log.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
			continue
		}
		log.Info("migration applied", attrs...)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Debug("migrations up to date",
		slog.Int64("version", version),
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return version, nil
}
