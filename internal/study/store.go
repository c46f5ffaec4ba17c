package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-drill/internal/config"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/platform/memory"
	"github.com/phrazzld/scry-drill/internal/platform/postgres"
	"github.com/phrazzld/scry-drill/internal/platform/sqlite"
	"github.com/phrazzld/scry-drill/internal/redact"
	"github.com/phrazzld/scry-drill/internal/store"
)

// Store drivers accepted by OpenStore
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenStore opens the event store selected by cfg and applies pending
// migrations for the SQL backends. The DSN never appears unredacted in logs
// or in the returned error. The caller owns the store and must Close it.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (store.EventStore, error) {
	if log == nil {
		log = slog.Default()
	}
	log = logger.FromContextOrDefault(ctx, log)

	dsn := redact.String(cfg.DSN)

	var (
		events store.EventStore
		err    error
	)
	switch cfg.Driver {
	case DriverMemory, "":
		events = memory.NewMemoryEventStore(log)
	case DriverSQLite:
		events, err = openSQLite(ctx, cfg.DSN, log)
	case DriverPostgres:
		events, err = openPostgres(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		log.Error("failed to open event store",
			slog.String("driver", cfg.Driver),
			slog.String("dsn", dsn),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Driver, dsn, redact.Wrap(err))
	}

	log.Info("event store opened",
		slog.String("driver", cfg.Driver),
		slog.String("dsn", dsn))
	return events, nil
}

// The helpers keep typed nil pointers from leaking into the interface.
func openSQLite(ctx context.Context, path string, log *slog.Logger) (store.EventStore, error) {
	s, err := sqlite.Open(ctx, path, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, dsn string, log *slog.Logger) (store.EventStore, error) {
	s, err := postgres.Open(ctx, dsn, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}
