package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/migrations"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/store"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DriverName is the database/sql driver name registered by pgx.
const DriverName = "pgx"

const selectColumns = `
	SELECT id, deck_id, card_id, question_type, front_side, back_side,
		array_to_string(alternatives, ','), correct, answered_at
	FROM answer_events
`

// PostgresEventStore implements the store.EventStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEventStore struct {
	db     store.DBTX
	closer io.Closer
	logger *slog.Logger
}

// NewPostgresEventStore creates a new PostgreSQL implementation of the EventStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresEventStore(db store.DBTX, logger *slog.Logger) *PostgresEventStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_event_store")),
	}
}

// Open connects to the database at dsn, verifies connectivity, applies
// pending migrations, and returns a store that owns the connection pool.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresEventStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is empty: check your configuration")
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := migrations.Up(ctx, db, migrations.Postgres, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewPostgresEventStore(db, logger)
	s.closer = db
	return s, nil
}

// Ensure PostgresEventStore implements store.EventStore interface
var _ store.EventStore = (*PostgresEventStore)(nil)

// Append implements store.EventStore.Append.
// Returns store.ErrDuplicateEvent if the ID or the (deck, card, answered_at) key already exists.
func (s *PostgresEventStore) Append(ctx context.Context, event *domain.AnswerEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if event == nil {
		return fmt.Errorf("%w: nil answer event", store.ErrInvalidEntity)
	}
	if err := event.Validate(); err != nil {
		log.Warn("answer event validation failed during append",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO answer_events (id, deck_id, card_id, question_type, front_side,
			back_side, alternatives, correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, string_to_array($7, ',')::uuid[], $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.DeckID,
		event.CardID,
		string(event.Type),
		event.FrontSide,
		event.BackSide,
		store.JoinIDs(event.Alternatives),
		event.Correct,
		event.AnsweredAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate answer event",
				slog.String("event_id", event.ID.String()),
				slog.String("card_id", event.CardID.String()))
			return MapError(err)
		}

		log.Error("failed to append answer event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return store.NewStoreError("answer_event", "append", "insert failed", MapError(err))
	}

	log.Debug("answer event appended",
		slog.String("event_id", event.ID.String()),
		slog.String("card_id", event.CardID.String()),
		slog.Bool("correct", event.Correct))
	return nil
}

// ListByCard implements store.EventStore.ListByCard.
func (s *PostgresEventStore) ListByCard(
	ctx context.Context,
	deckID, cardID uuid.UUID,
) ([]*domain.AnswerEvent, error) {
	query := selectColumns + `
		WHERE deck_id = $1 AND card_id = $2
		ORDER BY answered_at DESC, id ASC
	`
	return s.query(ctx, "list", query, deckID, cardID)
}

// ListByCardOutcome implements store.EventStore.ListByCardOutcome.
func (s *PostgresEventStore) ListByCardOutcome(
	ctx context.Context,
	deckID, cardID uuid.UUID,
	correct bool,
) ([]*domain.AnswerEvent, error) {
	query := selectColumns + `
		WHERE deck_id = $1 AND card_id = $2 AND correct = $3
		ORDER BY answered_at DESC, id ASC
	`
	return s.query(ctx, "list_by_outcome", query, deckID, cardID, correct)
}

func (s *PostgresEventStore) query(
	ctx context.Context,
	operation, query string,
	args ...any,
) ([]*domain.AnswerEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query answer events",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("answer_event", operation, "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	events := make([]*domain.AnswerEvent, 0)
	for rows.Next() {
		var (
			event        domain.AnswerEvent
			qtype        string
			alternatives string
		)
		if err := rows.Scan(
			&event.ID,
			&event.DeckID,
			&event.CardID,
			&qtype,
			&event.FrontSide,
			&event.BackSide,
			&alternatives,
			&event.Correct,
			&event.AnsweredAt,
		); err != nil {
			log.Error("failed to scan answer event",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("answer_event", operation, "scan failed", err)
		}

		event.Type = domain.QuestionType(qtype)
		event.AnsweredAt = event.AnsweredAt.UTC()
		if event.Alternatives, err = store.SplitIDs(alternatives); err != nil {
			return nil, store.NewStoreError("answer_event", operation, "decode failed", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("answer_event", operation, "row iteration failed", err)
	}

	return events, nil
}

// Close closes the connection pool when the store owns it.
func (s *PostgresEventStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
