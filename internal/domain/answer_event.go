package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuestionType is the exercise format a card was presented in.
type QuestionType string

// Possible question types
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTyped          QuestionType = "typed"
)

// MaxAlternatives is the number of distractors a multiple-choice question shows.
const MaxAlternatives = 2

// Answer event validation errors
var (
	ErrEventDeckIDEmpty     = errors.New("answer event deck ID cannot be empty")
	ErrEventCardIDEmpty     = errors.New("answer event card ID cannot be empty")
	ErrEventTimeEmpty       = errors.New("answer event timestamp cannot be zero")
	ErrEventSameSides       = errors.New("answer event front and back sides must differ")
	ErrEventAlternatives    = errors.New("answer event has too many alternatives")
	ErrEventTypedWithChoice = errors.New("typed answer event cannot carry alternatives")
)

// AnswerEvent records a single answered question. Events are append-only:
// once written they are never updated or deleted.
type AnswerEvent struct {
	ID           uuid.UUID    `json:"id"`
	DeckID       uuid.UUID    `json:"deck_id"`
	CardID       uuid.UUID    `json:"card_id"`
	Alternatives []uuid.UUID  `json:"alternatives,omitempty"` // Multiple-choice distractors
	Type         QuestionType `json:"type"`
	FrontSide    int          `json:"front_side"`
	BackSide     int          `json:"back_side"`
	Correct      bool         `json:"correct"`
	AnsweredAt   time.Time    `json:"answered_at"`
}

// NewAnswerEvent creates a validated event. The timestamp is truncated to
// milliseconds in UTC so that every store round-trips it exactly.
func NewAnswerEvent(
	deckID, cardID uuid.UUID,
	qtype QuestionType,
	frontSide, backSide int,
	alternatives []uuid.UUID,
	correct bool,
	answeredAt time.Time,
) (*AnswerEvent, error) {
	event := &AnswerEvent{
		ID:           uuid.New(),
		DeckID:       deckID,
		CardID:       cardID,
		Alternatives: alternatives,
		Type:         qtype,
		FrontSide:    frontSide,
		BackSide:     backSide,
		Correct:      correct,
		AnsweredAt:   answeredAt.UTC().Truncate(time.Millisecond),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the AnswerEvent has valid data.
func (e *AnswerEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrInvalidID
	}
	if e.DeckID == uuid.Nil {
		return ErrEventDeckIDEmpty
	}
	if e.CardID == uuid.Nil {
		return ErrEventCardIDEmpty
	}
	if e.AnsweredAt.IsZero() {
		return ErrEventTimeEmpty
	}
	if !e.Type.IsValid() {
		return ErrInvalidQuestionType
	}
	if e.FrontSide < 0 || e.BackSide < 0 {
		return ErrSideIndexOutOfRange
	}
	if e.FrontSide == e.BackSide {
		return ErrEventSameSides
	}
	if len(e.Alternatives) > MaxAlternatives {
		return ErrEventAlternatives
	}
	if e.Type == QuestionTyped && len(e.Alternatives) > 0 {
		return ErrEventTypedWithChoice
	}
	return nil
}

// IsValid reports whether the question type is known.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTyped:
		return true
	default:
		return false
	}
}
