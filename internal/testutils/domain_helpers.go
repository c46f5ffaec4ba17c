package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/stretchr/testify/require"
)

// DeckOption customizes a test deck.
type DeckOption func(*deckSpec)

type deckSpec struct {
	name      string
	sideNames []string
	typable   []int
	boost     float64
	rows      [][]string
}

// WithDeckName sets the deck name.
func WithDeckName(name string) DeckOption {
	return func(s *deckSpec) { s.name = name }
}

// WithSideNames sets the side names. Rows must match their count.
func WithSideNames(names ...string) DeckOption {
	return func(s *deckSpec) { s.sideNames = names }
}

// WithTypableSides sets the sides that accept typed answers.
func WithTypableSides(sides ...int) DeckOption {
	return func(s *deckSpec) { s.typable = sides }
}

// WithRepetitionBoost sets the deck's repetition boost.
func WithRepetitionBoost(boost float64) DeckOption {
	return func(s *deckSpec) { s.boost = boost }
}

// WithRows sets the raw side values, one row per card.
func WithRows(rows [][]string) DeckOption {
	return func(s *deckSpec) { s.rows = rows }
}

// WithNumCards generates n two-sided cards "front-i"/"back-i".
func WithNumCards(n int) DeckOption {
	return func(s *deckSpec) {
		s.rows = make([][]string, n)
		for i := range s.rows {
			s.rows[i] = []string{fmt.Sprintf("front-%d", i), fmt.Sprintf("back-%d", i)}
		}
	}
}

// MustCreateDeckForTest builds a valid deck. By default it has ten two-sided
// cards, sides "front" and "back", and side 1 typable.
func MustCreateDeckForTest(t *testing.T, opts ...DeckOption) *domain.Deck {
	t.Helper()

	spec := &deckSpec{
		name:      "test deck",
		sideNames: []string{"front", "back"},
		typable:   []int{1},
	}
	WithNumCards(10)(spec)
	for _, opt := range opts {
		opt(spec)
	}

	inputs := make([]domain.CardInput, len(spec.rows))
	for i, row := range spec.rows {
		sides := make([]domain.Side, len(row))
		for j, raw := range row {
			sides[j] = domain.ParseSide(raw)
		}
		inputs[i] = domain.CardInput{Sides: sides}
	}

	deck, err := domain.NewDeck(spec.name, spec.sideNames, spec.typable, spec.boost, inputs)
	require.NoError(t, err, "Failed to create test deck")
	return deck
}

// AnswerHistory builds events for one card, newest first. The first outcome
// is answered at newest and each following one interval earlier.
func AnswerHistory(
	t *testing.T,
	deckID, cardID uuid.UUID,
	newest time.Time,
	interval time.Duration,
	outcomes ...bool,
) []*domain.AnswerEvent {
	t.Helper()

	events := make([]*domain.AnswerEvent, len(outcomes))
	for i, correct := range outcomes {
		at := newest.Add(-time.Duration(i) * interval)
		event, err := domain.NewAnswerEvent(deckID, cardID, domain.QuestionTyped, 0, 1, nil, correct, at)
		require.NoError(t, err, "Failed to create test answer event")
		events[i] = event
	}
	return events
}

// CorrectRun builds n correct answers ending at newest, one interval apart.
func CorrectRun(
	t *testing.T,
	deckID, cardID uuid.UUID,
	n int,
	newest time.Time,
	interval time.Duration,
) []*domain.AnswerEvent {
	t.Helper()

	outcomes := make([]bool, n)
	for i := range outcomes {
		outcomes[i] = true
	}
	return AnswerHistory(t, deckID, cardID, newest, interval, outcomes...)
}

// SnapshotWithValues returns a snapshot assigning values[i] to the card at
// index i and zero to every other card.
func SnapshotWithValues(deck *domain.Deck, values map[int]float64) *srs.Snapshot {
	scores := make(map[uuid.UUID]srs.Score, deck.Len())
	for _, card := range deck.Cards {
		scores[card.ID] = srs.Score{Value: values[card.Index]}
	}
	return srs.NewSnapshot(deck.ID, scores, srs.NewDefaultParams().MasteryThreshold, time.Now())
}

// UniformSnapshot returns a snapshot assigning value to every card.
func UniformSnapshot(deck *domain.Deck, value float64) *srs.Snapshot {
	values := make(map[int]float64, deck.Len())
	for _, card := range deck.Cards {
		values[card.Index] = value
	}
	return SnapshotWithValues(deck, values)
}
