package srs

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable set of card scores for one deck. A scoring pass
// produces a new snapshot instead of mutating cards; samplers only read it.
type Snapshot struct {
	DeckID      uuid.UUID
	ComputedAt  time.Time
	NumMastered int // Cards whose score exceeds the mastery threshold

	scores    map[uuid.UUID]Score
	threshold float64
}

// NewSnapshot freezes the given scores. The map is copied.
func NewSnapshot(deckID uuid.UUID, scores map[uuid.UUID]Score, threshold float64, at time.Time) *Snapshot {
	s := &Snapshot{
		DeckID:     deckID,
		ComputedAt: at,
		scores:     maps.Clone(scores),
		threshold:  threshold,
	}
	if s.scores == nil {
		s.scores = make(map[uuid.UUID]Score)
	}
	for _, sc := range s.scores {
		if sc.Value > threshold {
			s.NumMastered++
		}
	}
	return s
}

// Score returns the score of a card; unknown cards score zero.
func (s *Snapshot) Score(cardID uuid.UUID) Score {
	if s == nil {
		return Score{}
	}
	return s.scores[cardID]
}

// Value returns the recall estimate of a card.
func (s *Snapshot) Value(cardID uuid.UUID) float64 {
	return s.Score(cardID).Value
}

// Len returns the number of scored cards.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.scores)
}

// MasteryFraction returns NumMastered over the deck size.
func (s *Snapshot) MasteryFraction(deckSize int) float64 {
	if s == nil || deckSize <= 0 {
		return 0
	}
	return float64(s.NumMastered) / float64(deckSize)
}

// With returns a copy of the snapshot with one card's score replaced.
func (s *Snapshot) With(cardID uuid.UUID, score Score, at time.Time) *Snapshot {
	next := make(map[uuid.UUID]Score, s.Len()+1)
	if s != nil {
		maps.Copy(next, s.scores)
	}
	next[cardID] = score

	deckID, threshold := uuid.Nil, NewDefaultParams().MasteryThreshold
	if s != nil {
		deckID, threshold = s.DeckID, s.threshold
	}
	return NewSnapshot(deckID, next, threshold, at)
}
