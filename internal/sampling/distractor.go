package sampling

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/similarity"
)

// DefaultMasteryGate is the score below which distractors ignore similarity.
const DefaultMasteryGate = 0.7

// ErrDeckTooSmall is returned when a deck cannot supply two distractors.
var ErrDeckTooSmall = errors.New("deck needs at least three cards for distractors")

// DistractorSampler picks the wrong choices of a multiple-choice question.
// Well-known cards get similar cards as distractors; others get random ones.
type DistractorSampler struct {
	masteryGate float64
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewDistractorSampler creates a sampler. A non-positive gate uses
// DefaultMasteryGate; a nil rng is seeded from the clock.
func NewDistractorSampler(masteryGate float64, rng *rand.Rand, logger *slog.Logger) *DistractorSampler {
	if masteryGate <= 0 {
		masteryGate = DefaultMasteryGate
	}
	if rng == nil {
		rng = defaultRand()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DistractorSampler{
		masteryGate: masteryGate,
		rng:         rng,
		logger:      logger.With(slog.String("component", "distractor_sampler")),
	}
}

// Sample returns exactly domain.MaxAlternatives cards, distinct from target
// and from each other.
func (s *DistractorSampler) Sample(
	deck *domain.Deck,
	snapshot *srs.Snapshot,
	graph *similarity.Graph,
	target *domain.Card,
) ([]*domain.Card, error) {
	if deck.Len() < domain.MaxAlternatives+1 {
		return nil, fmt.Errorf("%w: deck %q has %d", ErrDeckTooSmall, deck.Name, deck.Len())
	}

	similar := graph.Similar(target.Index)
	picked := make([]*domain.Card, 0, domain.MaxAlternatives)

	switch {
	case snapshot.Value(target.ID) < s.masteryGate || len(similar) == 0:
		// uniform only

	case len(similar) == 1:
		picked = append(picked, deck.Cards[similar[0]])

	default:
		for _, i := range s.rng.Perm(len(similar))[:domain.MaxAlternatives] {
			picked = append(picked, deck.Cards[similar[i]])
		}
	}

	similarPicked := len(picked)
	for len(picked) < domain.MaxAlternatives {
		picked = append(picked, s.uniform(deck, target, picked))
	}

	s.logger.Debug("distractors sampled",
		slog.String("card_id", target.ID.String()),
		slog.Int("similar", similarPicked))
	return picked, nil
}

// uniform draws a card other than target and the already picked ones.
func (s *DistractorSampler) uniform(deck *domain.Deck, target *domain.Card, picked []*domain.Card) *domain.Card {
	for {
		card := deck.Cards[s.rng.IntN(deck.Len())]
		if card.ID == target.ID || containsCard(picked, card) {
			continue
		}
		return card
	}
}

func containsCard(cards []*domain.Card, card *domain.Card) bool {
	for _, c := range cards {
		if c.ID == card.ID {
			return true
		}
	}
	return false
}
