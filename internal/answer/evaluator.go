// Package answer grades typed answers. Answers are compared after
// normalization with an edit-distance tolerance proportional to the length
// of the expected text.
package answer

import (
	"fmt"
	"unicode/utf8"

	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/planner"
)

// DefaultDistAllowed is the tolerated edit distance per rune of the expected answer.
const DefaultDistAllowed = 0.3

// Result is the outcome of comparing one typed answer with one expected text.
type Result struct {
	Correct  bool
	Distance int
}

// Verdict grades a typed question. WrongSide is set when the answer is wrong
// for the asked side but matches another side of the same card; such answers
// are not recorded.
type Verdict struct {
	Result
	WrongSide   bool
	MatchedSide int // Side matched by a wrong-side answer, or -1
}

// Evaluator compares typed answers with accepted texts.
type Evaluator struct {
	distAllowed float64
}

// NewEvaluator creates an evaluator. A non-positive tolerance uses DefaultDistAllowed.
func NewEvaluator(distAllowed float64) *Evaluator {
	if distAllowed <= 0 {
		distAllowed = DefaultDistAllowed
	}
	return &Evaluator{distAllowed: distAllowed}
}

// DistAllowed returns the tolerance per rune of the expected answer.
func (e *Evaluator) DistAllowed() float64 {
	return e.distAllowed
}

// CheckTextAnswer compares typed with expected. The answer is correct when the
// distance between the normalized texts is below DistAllowed times the rune
// length of the normalized expected text. An expected text that normalizes to
// nothing only accepts an answer that does too.
func (e *Evaluator) CheckTextAnswer(expected, typed string) Result {
	want, got := Normalize(expected), Normalize(typed)
	dist := Distance(want, got)

	n := utf8.RuneCountInString(want)
	if n == 0 {
		return Result{Correct: dist == 0, Distance: dist}
	}
	return Result{
		Correct:  float64(dist) < e.distAllowed*float64(n),
		Distance: dist,
	}
}

// CheckTyped grades an answer to a typed question, testing the other text
// sides of the card when the asked side does not match.
func (e *Evaluator) CheckTyped(q *planner.Typed, typed string) (Verdict, error) {
	if q == nil || q.Card == nil {
		return Verdict{}, fmt.Errorf("%w: typed question without a card", domain.ErrValidation)
	}

	v := Verdict{Result: e.CheckTextAnswer(q.Answer, typed), MatchedSide: -1}
	if v.Correct {
		return v, nil
	}

	for i, side := range q.All {
		if i == q.BackSide || side.IsImage() {
			continue
		}
		// A side with no gradable text would accept a blank answer.
		if Normalize(side.Value) == "" {
			continue
		}
		if e.CheckTextAnswer(side.Value, typed).Correct {
			v.WrongSide = true
			v.MatchedSide = i
			break
		}
	}
	return v, nil
}
