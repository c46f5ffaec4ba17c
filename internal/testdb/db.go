package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/scry-drill/internal/migrations"
	"github.com/phrazzld/scry-drill/internal/platform/postgres"
	"github.com/phrazzld/scry-drill/internal/redact"
)

// GetTestDB opens the test database and migrates it to the latest schema.
// The connection is closed when the test ends. Without a configured URL the
// test is skipped, or fails in CI.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := GetTestDatabaseURL()
	if dsn == "" {
		if IsCI() {
			t.Fatalf("no database URL in CI: set %s", EnvDatabaseURL)
		}
		t.Skipf("%s not set, skipping PostgreSQL integration test", EnvDatabaseURL)
	}

	db, err := sql.Open(postgres.DriverName, dsn)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.String(dsn), redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database %s: %v", redact.String(dsn), redact.Error(err))
	}

	if _, err := migrations.Up(context.Background(), db, migrations.Postgres, nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// WithTx runs fn within a transaction that is always rolled back, so tests
// can write freely without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
