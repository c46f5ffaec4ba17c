package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
)

// AnswerRecordedEvent announces that an answer was appended to the log.
// Subscribers use it to rescore the card before the next question is planned.
type AnswerRecordedEvent struct {
	// ID is the ID of the stored answer event
	ID uuid.UUID `json:"id"`

	// DeckID and CardID identify the answered card
	DeckID uuid.UUID `json:"deck_id"`
	CardID uuid.UUID `json:"card_id"`

	// Type is the question format the card was asked in
	Type domain.QuestionType `json:"type"`

	// Correct is the graded outcome
	Correct bool `json:"correct"`

	// OccurredAt is when the answer was given
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAnswerRecordedEvent creates the notification for a stored answer.
func NewAnswerRecordedEvent(answer *domain.AnswerEvent) *AnswerRecordedEvent {
	return &AnswerRecordedEvent{
		ID:         answer.ID,
		DeckID:     answer.DeckID,
		CardID:     answer.CardID,
		Type:       answer.Type,
		Correct:    answer.Correct,
		OccurredAt: answer.AnsweredAt,
	}
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AnswerRecordedEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *AnswerRecordedEvent) error

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *AnswerRecordedEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the recorder to publish answers without knowing who rescores.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Handlers run synchronously; EmitEvent returns once every handler has.
	EmitEvent(ctx context.Context, event *AnswerRecordedEvent) error
}
