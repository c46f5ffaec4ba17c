package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswerEvent(t *testing.T) {
	t.Parallel()

	deckID, cardID := uuid.New(), uuid.New()
	at := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.FixedZone("CET", 3600))

	event, err := NewAnswerEvent(deckID, cardID, QuestionMultipleChoice, 0, 1,
		[]uuid.UUID{uuid.New(), uuid.New()}, true, at)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, time.UTC, event.AnsweredAt.Location())
	assert.Equal(t, 123000000, event.AnsweredAt.Nanosecond(), "timestamp should be truncated to milliseconds")
	assert.True(t, event.AnsweredAt.Equal(at.Truncate(time.Millisecond)))
}

func TestAnswerEventValidate(t *testing.T) {
	t.Parallel()

	valid := func() *AnswerEvent {
		return &AnswerEvent{
			ID:         uuid.New(),
			DeckID:     uuid.New(),
			CardID:     uuid.New(),
			Type:       QuestionTyped,
			FrontSide:  0,
			BackSide:   1,
			AnsweredAt: time.Now(),
		}
	}

	testCases := []struct {
		name    string
		mutate  func(e *AnswerEvent)
		wantErr error
	}{
		{"valid", func(e *AnswerEvent) {}, nil},
		{"nil deck", func(e *AnswerEvent) { e.DeckID = uuid.Nil }, ErrEventDeckIDEmpty},
		{"nil card", func(e *AnswerEvent) { e.CardID = uuid.Nil }, ErrEventCardIDEmpty},
		{"zero time", func(e *AnswerEvent) { e.AnsweredAt = time.Time{} }, ErrEventTimeEmpty},
		{"bad type", func(e *AnswerEvent) { e.Type = "essay" }, ErrInvalidQuestionType},
		{"same sides", func(e *AnswerEvent) { e.BackSide = 0 }, ErrEventSameSides},
		{"negative side", func(e *AnswerEvent) { e.FrontSide = -1 }, ErrSideIndexOutOfRange},
		{"typed with alternatives", func(e *AnswerEvent) { e.Alternatives = []uuid.UUID{uuid.New()} }, ErrEventTypedWithChoice},
		{"too many alternatives", func(e *AnswerEvent) {
			e.Type = QuestionMultipleChoice
			e.Alternatives = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		}, ErrEventAlternatives},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid()
			tc.mutate(e)
			err := e.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
