package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnswer(t *testing.T) *domain.AnswerEvent {
	t.Helper()
	answer, err := domain.NewAnswerEvent(
		uuid.New(), uuid.New(),
		domain.QuestionTyped,
		0, 1,
		nil,
		true,
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return answer
}

func TestNewAnswerRecordedEvent(t *testing.T) {
	t.Parallel()

	answer := newTestAnswer(t)
	event := NewAnswerRecordedEvent(answer)

	assert.Equal(t, answer.ID, event.ID)
	assert.Equal(t, answer.DeckID, event.DeckID)
	assert.Equal(t, answer.CardID, event.CardID)
	assert.Equal(t, answer.Type, event.Type)
	assert.True(t, event.Correct)
	assert.True(t, answer.AnsweredAt.Equal(event.OccurredAt))
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *AnswerRecordedEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *AnswerRecordedEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandler(t *testing.T) {
	t.Parallel()

	handler := &MockEventHandler{}
	event := NewAnswerRecordedEvent(newTestAnswer(t))

	err := handler.HandleEvent(context.Background(), event)
	assert.NoError(t, err)
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)

	expectedErr := errors.New("handler error")
	handler.HandlerError = expectedErr
	err = handler.HandleEvent(context.Background(), event)
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 2, handler.HandledCount)
}

func TestEventHandlerFunc(t *testing.T) {
	t.Parallel()

	var got *AnswerRecordedEvent
	var handler EventHandler = EventHandlerFunc(func(_ context.Context, e *AnswerRecordedEvent) error {
		got = e
		return nil
	})

	event := NewAnswerRecordedEvent(newTestAnswer(t))
	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}
