package sqlite

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

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

const selectColumns = `
	SELECT id, deck_id, card_id, question_type, front_side, back_side,
		alternatives, correct, answered_at_ms
	FROM answer_events
`

// SQLiteEventStore implements the store.EventStore interface
// using a SQLite database as the storage backend.
type SQLiteEventStore struct {
	db     store.DBTX
	closer io.Closer
	logger *slog.Logger
}

// NewSQLiteEventStore creates a store on a database handle managed by the caller.
// The schema must already be migrated. If logger is nil, a default logger will be used.
func NewSQLiteEventStore(db store.DBTX, logger *slog.Logger) *SQLiteEventStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_event_store")),
	}
}

// Open opens (creating if needed) the database file at path, applies pending
// migrations, and returns a store that owns the connection.
func Open(ctx context.Context, path string, logger *slog.Logger) (*SQLiteEventStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path cannot be empty")
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
	}

	if _, err := migrations.Up(ctx, db, migrations.SQLite, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewSQLiteEventStore(db, logger)
	s.closer = db
	return s, nil
}

// Ensure SQLiteEventStore implements store.EventStore interface
var _ store.EventStore = (*SQLiteEventStore)(nil)

// Append implements store.EventStore.Append.
func (s *SQLiteEventStore) Append(ctx context.Context, event *domain.AnswerEvent) error {
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
			back_side, alternatives, correct, answered_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		event.ID.String(),
		event.DeckID.String(),
		event.CardID.String(),
		string(event.Type),
		event.FrontSide,
		event.BackSide,
		store.JoinIDs(event.Alternatives),
		event.Correct,
		event.AnsweredAt.UnixMilli(),
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
func (s *SQLiteEventStore) ListByCard(
	ctx context.Context,
	deckID, cardID uuid.UUID,
) ([]*domain.AnswerEvent, error) {
	query := selectColumns + `
		WHERE deck_id = ? AND card_id = ?
		ORDER BY answered_at_ms DESC, id ASC
	`
	return s.query(ctx, "list", query, deckID.String(), cardID.String())
}

// ListByCardOutcome implements store.EventStore.ListByCardOutcome.
func (s *SQLiteEventStore) ListByCardOutcome(
	ctx context.Context,
	deckID, cardID uuid.UUID,
	correct bool,
) ([]*domain.AnswerEvent, error) {
	query := selectColumns + `
		WHERE deck_id = ? AND card_id = ? AND correct = ?
		ORDER BY answered_at_ms DESC, id ASC
	`
	return s.query(ctx, "list_by_outcome", query, deckID.String(), cardID.String(), correct)
}

func (s *SQLiteEventStore) query(
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
		return nil, store.NewStoreError("answer_event", operation, "query failed", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	events := make([]*domain.AnswerEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Error("failed to scan answer event",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("answer_event", operation, "scan failed", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("answer_event", operation, "row iteration failed", err)
	}

	return events, nil
}

func scanEvent(rows *sql.Rows) (*domain.AnswerEvent, error) {
	var (
		id, deckID, cardID, qtype, alternatives string
		event                                   domain.AnswerEvent
		answeredAtMs                            int64
	)

	if err := rows.Scan(
		&id,
		&deckID,
		&cardID,
		&qtype,
		&event.FrontSide,
		&event.BackSide,
		&alternatives,
		&event.Correct,
		&answeredAtMs,
	); err != nil {
		return nil, err
	}

	var err error
	if event.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", id, err)
	}
	if event.DeckID, err = uuid.Parse(deckID); err != nil {
		return nil, fmt.Errorf("invalid deck id %q: %w", deckID, err)
	}
	if event.CardID, err = uuid.Parse(cardID); err != nil {
		return nil, fmt.Errorf("invalid card id %q: %w", cardID, err)
	}
	if event.Alternatives, err = store.SplitIDs(alternatives); err != nil {
		return nil, err
	}
	event.Type = domain.QuestionType(qtype)
	event.AnsweredAt = time.UnixMilli(answeredAtMs).UTC()

	return &event, nil
}

// Close closes the database when the store owns it.
func (s *SQLiteEventStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
