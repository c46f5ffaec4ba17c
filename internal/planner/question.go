package planner

import (
	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/sampling"
)

// Question is a planned exercise, either *MultipleChoice or *Typed.
type Question interface {
	// Format reports which exercise the view layer must render.
	Format() domain.QuestionType

	// Target returns the card being asked.
	Target() *domain.Card

	// Sides returns the indices of the prompt side and the answer side.
	Sides() (front, back int)
}

// Header holds what every question format shares.
type Header struct {
	Card      *domain.Card
	FrontSide int
	BackSide  int
	FrontName string
	BackName  string
	Front     domain.Side // Prompt shown to the user
	Selection sampling.Selection
}

// Target implements Question.
func (h *Header) Target() *domain.Card {
	return h.Card
}

// Sides implements Question.
func (h *Header) Sides() (int, int) {
	return h.FrontSide, h.BackSide
}

// MultipleChoice asks the user to pick the back side among three choices.
type MultipleChoice struct {
	Header
	Choices      []domain.Side
	ChoiceCards  []*domain.Card
	CorrectIndex int
}

// Format implements Question.
func (q *MultipleChoice) Format() domain.QuestionType {
	return domain.QuestionMultipleChoice
}

// Alternatives returns the IDs of the distractor cards in display order.
func (q *MultipleChoice) Alternatives() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(q.ChoiceCards)-1)
	for i, c := range q.ChoiceCards {
		if i != q.CorrectIndex {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// IsCorrect reports whether the choice at index answers the question.
func (q *MultipleChoice) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// Typed asks the user to type the back side.
type Typed struct {
	Header
	Answer string        // Accepted answer text
	All    []domain.Side // Every side of the card, for wrong-side detection
}

// Format implements Question.
func (q *Typed) Format() domain.QuestionType {
	return domain.QuestionTyped
}

var (
	_ Question = (*MultipleChoice)(nil)
	_ Question = (*Typed)(nil)
)
