package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-drill/internal/domain"
)

const day = 24 * time.Hour

// Outcome is the part of an answer event the recall estimate depends on.
type Outcome struct {
	Correct bool
	At      time.Time
}

// Score is the recall estimate of one card together with the intermediate
// values it was derived from.
type Score struct {
	Value         float64 `json:"score"`           // Estimated probability of a correct answer now
	Streak        int     `json:"streak"`          // Raw count of consecutive correct answers
	K             float64 `json:"k"`               // Streak normalized by side pairs and repetition boost
	BaseScore     float64 `json:"base_score"`      // 1 - Base^K
	Decay         float64 `json:"decay"`           // Forgetting factor in [0, 1]
	DaysSinceSeen float64 `json:"days_since_seen"` // Days since the most recent answer
}

// OutcomesFromEvents projects events, newest first, onto outcomes.
func OutcomesFromEvents(events []*domain.AnswerEvent) []Outcome {
	outcomes := make([]Outcome, len(events))
	for i, e := range events {
		outcomes[i] = Outcome{Correct: e.Correct, At: e.AnsweredAt}
	}
	return outcomes
}

// correctStreak returns the length of the all-correct prefix of newest-first outcomes.
func correctStreak(outcomes []Outcome) int {
	streak := 0
	for _, o := range outcomes {
		if !o.Correct {
			break
		}
		streak++
	}
	return streak
}

// sidePairs returns the number of unordered side pairs a card has to be
// mastered in. Decks always have at least two sides; the floor keeps the
// division defined for anything smaller.
func sidePairs(numSides int) float64 {
	pairs := float64(numSides*numSides-numSides) / 2
	if pairs < 1 {
		return 1
	}
	return pairs
}

// ComputeScore estimates the probability that a card would be answered
// correctly at time now.
//
// Parameters:
//   - outcomes: The card's answer history, most recent first
//   - numSides: Number of sides of the owning deck
//   - repetitionBoost: Deck multiplier; higher values need more repetitions.
//     Non-positive values are treated as 1.
//   - now: The instant to evaluate the estimate at
//   - params: Configuration parameters for the model
//
// Algorithm behavior:
//   - k counts the consecutive correct answers since the last mistake,
//     normalized by the number of side pairs and the repetition boost
//   - The base score 1 - Base^k saturates toward 1 as k grows
//   - Decay starts only after k*DecayOffsetDays days without review, then
//     shrinks the score geometrically with decayBase = 1 - 1/(k*DecayMult + 1)
//   - A mistake as the most recent answer resets k, and with it the score, to 0
//
// The function is pure: all randomness lives in sampling.
func ComputeScore(
	outcomes []Outcome,
	numSides int,
	repetitionBoost float64,
	now time.Time,
	params *Params,
) Score {
	if repetitionBoost <= 0 {
		repetitionBoost = domain.DefaultRepetitionBoost
	}

	streak := correctStreak(outcomes)
	k := float64(streak) / sidePairs(numSides) / repetitionBoost

	baseScore := 1 - math.Pow(params.Base, k)

	daysSinceSeen := params.NeverSeenDays
	if len(outcomes) > 0 {
		daysSinceSeen = math.Max(0, float64(now.Sub(outcomes[0].At))/float64(day))
	}

	decayBase := 1 - 1/(k*params.DecayMult+1)
	decayOffset := k * params.DecayOffsetDays
	decay := math.Pow(decayBase, math.Max(0, daysSinceSeen-decayOffset))

	return Score{
		Value:         clamp01(baseScore * decay),
		Streak:        streak,
		K:             k,
		BaseScore:     baseScore,
		Decay:         decay,
		DaysSinceSeen: daysSinceSeen,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
