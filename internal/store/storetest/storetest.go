// Package storetest provides a behavioral test suite shared by every
// store.EventStore implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. The suite closes it when done.
type Factory func(t *testing.T) store.EventStore

var baseTime = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// NewEvent builds a valid typed event for tests.
func NewEvent(t *testing.T, deckID, cardID uuid.UUID, correct bool, at time.Time) *domain.AnswerEvent {
	t.Helper()

	event, err := domain.NewAnswerEvent(deckID, cardID, domain.QuestionTyped, 0, 1, nil, correct, at)
	require.NoError(t, err)
	return event
}

// RunEventStoreTests exercises the EventStore contract against the store
// produced by newStore.
func RunEventStoreTests(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("EmptyHistory", func(t *testing.T) {
		s := open(t, newStore)

		events, err := s.ListByCard(context.Background(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("AppendAndListNewestFirst", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		deckID, cardID := uuid.New(), uuid.New()

		for i, correct := range []bool{true, false, true} {
			require.NoError(t, s.Append(ctx, NewEvent(t, deckID, cardID, correct, baseTime.Add(time.Duration(i)*time.Hour))))
		}
		// Another card's history must not leak.
		require.NoError(t, s.Append(ctx, NewEvent(t, deckID, uuid.New(), true, baseTime)))

		events, err := s.ListByCard(ctx, deckID, cardID)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, baseTime.Add(2*time.Hour), events[0].AnsweredAt.UTC())
		assert.Equal(t, baseTime.Add(time.Hour), events[1].AnsweredAt.UTC())
		assert.Equal(t, baseTime, events[2].AnsweredAt.UTC())
		assert.False(t, events[1].Correct)
	})

	t.Run("RoundTripsFields", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		deckID, cardID := uuid.New(), uuid.New()
		alternatives := []uuid.UUID{uuid.New(), uuid.New()}

		at := baseTime.Add(1234 * time.Millisecond)
		event, err := domain.NewAnswerEvent(deckID, cardID, domain.QuestionMultipleChoice, 2, 0, alternatives, true, at)
		require.NoError(t, err)
		require.NoError(t, s.Append(ctx, event))

		events, err := s.ListByCard(ctx, deckID, cardID)
		require.NoError(t, err)
		require.Len(t, events, 1)

		got := events[0]
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, deckID, got.DeckID)
		assert.Equal(t, cardID, got.CardID)
		assert.Equal(t, domain.QuestionMultipleChoice, got.Type)
		assert.Equal(t, 2, got.FrontSide)
		assert.Equal(t, 0, got.BackSide)
		assert.True(t, got.Correct)
		assert.Equal(t, alternatives, got.Alternatives)
		assert.True(t, at.Equal(got.AnsweredAt), "expected %s, got %s", at, got.AnsweredAt)
	})

	t.Run("ListByOutcome", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		deckID, cardID := uuid.New(), uuid.New()

		outcomes := []bool{false, true, false, false, true}
		for i, correct := range outcomes {
			require.NoError(t, s.Append(ctx, NewEvent(t, deckID, cardID, correct, baseTime.Add(time.Duration(i)*time.Minute))))
		}

		wrong, err := s.ListByCardOutcome(ctx, deckID, cardID, false)
		require.NoError(t, err)
		require.Len(t, wrong, 3)
		for _, e := range wrong {
			assert.False(t, e.Correct)
		}
		assert.Equal(t, baseTime.Add(3*time.Minute), wrong[0].AnsweredAt.UTC())

		right, err := s.ListByCardOutcome(ctx, deckID, cardID, true)
		require.NoError(t, err)
		assert.Len(t, right, 2)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		event := NewEvent(t, uuid.New(), uuid.New(), true, baseTime)
		require.NoError(t, s.Append(ctx, event))

		again := *event
		again.AnsweredAt = baseTime.Add(time.Second)
		err := s.Append(ctx, &again)
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrDuplicateEvent), "got %v", err)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("DuplicateCardTimestamp", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		deckID, cardID := uuid.New(), uuid.New()

		require.NoError(t, s.Append(ctx, NewEvent(t, deckID, cardID, true, baseTime)))
		err := s.Append(ctx, NewEvent(t, deckID, cardID, false, baseTime))
		require.ErrorIs(t, err, store.ErrDuplicateEvent)

		// The first event stays authoritative.
		events, err := s.ListByCard(ctx, deckID, cardID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].Correct)
	})

	t.Run("InvalidEvent", func(t *testing.T) {
		s := open(t, newStore)

		event := NewEvent(t, uuid.New(), uuid.New(), true, baseTime)
		event.BackSide = event.FrontSide
		err := s.Append(context.Background(), event)
		require.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEventSameSides)
	})
}

func open(t *testing.T, newStore Factory) store.EventStore {
	t.Helper()

	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
