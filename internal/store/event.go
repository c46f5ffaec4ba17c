package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
)

// EventStore defines the interface for the append-only answer log.
// Version: 1.0
type EventStore interface {
	// Append records a new answer event.
	// Returns ErrInvalidEntity (wrapping the domain error) if the event fails validation.
	// Returns ErrDuplicateEvent if an event with the same ID, or for the same
	// deck and card at the same timestamp, already exists. Callers treat this
	// as recoverable: the earlier event stays authoritative.
	Append(ctx context.Context, event *domain.AnswerEvent) error

	// ListByCard returns every event of a card, most recent first.
	// A card without history yields an empty slice and no error.
	ListByCard(ctx context.Context, deckID, cardID uuid.UUID) ([]*domain.AnswerEvent, error)

	// ListByCardOutcome returns the events of a card with the given correctness,
	// most recent first.
	ListByCardOutcome(ctx context.Context, deckID, cardID uuid.UUID, correct bool) ([]*domain.AnswerEvent, error)

	// Close releases the resources held by the store.
	Close() error
}

// DBTX abstracts the database handle used by the SQL event stores.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
