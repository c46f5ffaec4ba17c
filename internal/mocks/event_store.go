package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/store"
)

// MockEventStore implements store.EventStore for testing
type MockEventStore struct {
	// Function fields for customizable behavior
	AppendFn            func(ctx context.Context, event *domain.AnswerEvent) error
	ListByCardFn        func(ctx context.Context, deckID, cardID uuid.UUID) ([]*domain.AnswerEvent, error)
	ListByCardOutcomeFn func(ctx context.Context, deckID, cardID uuid.UUID, correct bool) ([]*domain.AnswerEvent, error)
	CloseFn             func() error

	// Data for default implementation
	mu          sync.Mutex
	Events      []*domain.AnswerEvent
	AppendError error
	ListError   error
	AppendCalls int
	ListCalls   int
	Closed      bool
}

// NewMockEventStore creates a new mock store with initialized defaults
func NewMockEventStore(events ...*domain.AnswerEvent) *MockEventStore {
	return &MockEventStore{
		Events: slices.Clone(events),
	}
}

var _ store.EventStore = (*MockEventStore)(nil)

// Append implements the EventStore interface
func (m *MockEventStore) Append(ctx context.Context, event *domain.AnswerEvent) error {
	m.mu.Lock()
	m.AppendCalls++
	m.mu.Unlock()

	if m.AppendFn != nil {
		return m.AppendFn(ctx, event)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendError != nil {
		return m.AppendError
	}
	for _, e := range m.Events {
		if e.ID == event.ID {
			return store.ErrDuplicateEvent
		}
	}
	m.Events = append(m.Events, event)
	return nil
}

// ListByCard implements the EventStore interface
func (m *MockEventStore) ListByCard(ctx context.Context, deckID, cardID uuid.UUID) ([]*domain.AnswerEvent, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListByCardFn != nil {
		return m.ListByCardFn(ctx, deckID, cardID)
	}
	return m.filter(deckID, cardID, func(*domain.AnswerEvent) bool { return true })
}

// ListByCardOutcome implements the EventStore interface
func (m *MockEventStore) ListByCardOutcome(
	ctx context.Context,
	deckID, cardID uuid.UUID,
	correct bool,
) ([]*domain.AnswerEvent, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListByCardOutcomeFn != nil {
		return m.ListByCardOutcomeFn(ctx, deckID, cardID, correct)
	}
	return m.filter(deckID, cardID, func(e *domain.AnswerEvent) bool { return e.Correct == correct })
}

// Close implements the EventStore interface
func (m *MockEventStore) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// filter returns matching events, newest first.
func (m *MockEventStore) filter(
	deckID, cardID uuid.UUID,
	keep func(*domain.AnswerEvent) bool,
) ([]*domain.AnswerEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	var result []*domain.AnswerEvent
	for _, e := range m.Events {
		if e.DeckID == deckID && e.CardID == cardID && keep(e) {
			result = append(result, e)
		}
	}
	slices.SortStableFunc(result, func(a, b *domain.AnswerEvent) int {
		return b.AnsweredAt.Compare(a.AnsweredAt)
	})
	return result, nil
}
