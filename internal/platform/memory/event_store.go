package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/store"
)

type cardKey struct {
	deckID uuid.UUID
	cardID uuid.UUID
}

type eventKey struct {
	cardKey
	at int64
}

// MemoryEventStore implements store.EventStore in memory.
type MemoryEventStore struct {
	mu     sync.RWMutex
	ids    map[uuid.UUID]struct{}
	keys   map[eventKey]struct{}
	byCard map[cardKey][]*domain.AnswerEvent
	closed bool
	logger *slog.Logger
}

// NewMemoryEventStore creates an empty in-memory event store.
// If logger is nil, a default logger will be used.
func NewMemoryEventStore(logger *slog.Logger) *MemoryEventStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryEventStore{
		ids:    make(map[uuid.UUID]struct{}),
		keys:   make(map[eventKey]struct{}),
		byCard: make(map[cardKey][]*domain.AnswerEvent),
		logger: logger.With(slog.String("component", "memory_event_store")),
	}
}

// Ensure MemoryEventStore implements store.EventStore interface
var _ store.EventStore = (*MemoryEventStore)(nil)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memory event store is closed")

// Append implements store.EventStore.Append.
func (s *MemoryEventStore) Append(ctx context.Context, event *domain.AnswerEvent) error {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	ck := cardKey{deckID: event.DeckID, cardID: event.CardID}
	key := eventKey{cardKey: ck, at: event.AnsweredAt.UnixMilli()}
	if _, ok := s.ids[event.ID]; ok {
		return fmt.Errorf("%w: id %s", store.ErrDuplicateEvent, event.ID)
	}
	if _, ok := s.keys[key]; ok {
		return fmt.Errorf("%w: card %s at %s", store.ErrDuplicateEvent,
			event.CardID, event.AnsweredAt.Format(time.RFC3339Nano))
	}

	stored := cloneEvent(event)
	s.ids[stored.ID] = struct{}{}
	s.keys[key] = struct{}{}
	s.byCard[ck] = append(s.byCard[ck], stored)

	log.Debug("answer event appended",
		slog.String("event_id", stored.ID.String()),
		slog.String("card_id", stored.CardID.String()),
		slog.Bool("correct", stored.Correct))
	return nil
}

// ListByCard implements store.EventStore.ListByCard.
func (s *MemoryEventStore) ListByCard(
	ctx context.Context,
	deckID, cardID uuid.UUID,
) ([]*domain.AnswerEvent, error) {
	return s.list(ctx, deckID, cardID, func(*domain.AnswerEvent) bool { return true })
}

// ListByCardOutcome implements store.EventStore.ListByCardOutcome.
func (s *MemoryEventStore) ListByCardOutcome(
	ctx context.Context,
	deckID, cardID uuid.UUID,
	correct bool,
) ([]*domain.AnswerEvent, error) {
	return s.list(ctx, deckID, cardID, func(e *domain.AnswerEvent) bool { return e.Correct == correct })
}

func (s *MemoryEventStore) list(
	ctx context.Context,
	deckID, cardID uuid.UUID,
	keep func(*domain.AnswerEvent) bool,
) ([]*domain.AnswerEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	stored := s.byCard[cardKey{deckID: deckID, cardID: cardID}]
	result := make([]*domain.AnswerEvent, 0, len(stored))
	for _, e := range stored {
		if keep(e) {
			result = append(result, cloneEvent(e))
		}
	}

	// Most recent first; ties broken by ID for a stable order.
	slices.SortFunc(result, func(a, b *domain.AnswerEvent) int {
		if c := b.AnsweredAt.Compare(a.AnsweredAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return result, nil
}

// Close implements store.EventStore.Close. Further calls fail with ErrClosed.
func (s *MemoryEventStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneEvent(e *domain.AnswerEvent) *domain.AnswerEvent {
	c := *e
	c.Alternatives = slices.Clone(e.Alternatives)
	return &c
}
