package sampling

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/similarity"
)

// SelectionKind names the stage that produced a card.
type SelectionKind string

// Possible selection stages
const (
	SelectedExploration SelectionKind = "exploration"
	SelectedRejection   SelectionKind = "rejection"
	SelectedExhausted   SelectionKind = "exhausted"
)

// Selection describes how SelectNext arrived at its card.
type Selection struct {
	Kind        SelectionKind
	Original    *domain.Card // Card chosen before similarity substitution
	Substituted bool
	Trials      int // Rejection passes used
}

// CardSampler picks the next card to ask.
type CardSampler struct {
	params *Params
	rng    *rand.Rand
	logger *slog.Logger
}

// NewCardSampler creates a sampler. Nil params use the defaults; a nil rng is
// seeded from the clock. If logger is nil, a default logger will be used.
func NewCardSampler(params *Params, rng *rand.Rand, logger *slog.Logger) *CardSampler {
	if params == nil {
		params = NewDefaultParams()
	}
	if rng == nil {
		rng = defaultRand()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardSampler{
		params: params,
		rng:    rng,
		logger: logger.With(slog.String("component", "card_sampler")),
	}
}

// Params returns the sampler's parameters.
func (s *CardSampler) Params() *Params {
	return s.params
}

// SelectNext returns the next card of deck. The selected card is pushed onto
// recent before similarity substitution, and a substitute that is itself
// recent is discarded in favour of the original.
func (s *CardSampler) SelectNext(
	deck *domain.Deck,
	snapshot *srs.Snapshot,
	graph *similarity.Graph,
	recent *RecencyBuffer,
) (*domain.Card, Selection) {
	ordered := deck.Ordered()

	candidates := make([]*domain.Card, 0, len(ordered))
	for _, card := range ordered {
		if !recent.Contains(card.ID) {
			candidates = append(candidates, card)
		}
	}

	var sel Selection
	exploreProb := math.Pow(snapshot.MasteryFraction(deck.Len()), s.params.MasteryExponent) * s.params.MaxUniformProb

	switch {
	case len(candidates) == 0:
		sel.Kind = SelectedExhausted
		sel.Original = ordered[s.rng.IntN(len(ordered))]
		s.logger.Debug("every card is recent, selecting uniformly",
			slog.Int("deck_size", len(ordered)),
			slog.Int("recent", recent.Len()))

	case s.rng.Float64() < exploreProb:
		sel.Kind = SelectedExploration
		sel.Original = candidates[s.rng.IntN(len(candidates))]

	default:
		sel.Original, sel.Trials = s.reject(candidates, snapshot)
		sel.Kind = SelectedRejection
		if sel.Original == nil {
			sel.Kind = SelectedExhausted
			sel.Original = ordered[s.rng.IntN(len(ordered))]
			s.logger.Debug("rejection sampling exhausted, selecting uniformly",
				slog.Int("trials", sel.Trials),
				slog.String("card_id", sel.Original.ID.String()))
		}
	}

	recent.Push(sel.Original.ID)

	card := s.substitute(deck, graph, recent, sel.Original)
	sel.Substituted = card != sel.Original
	return card, sel
}

// reject walks candidates in ID order, starting from a random card and
// wrapping around, and accepts a card when a uniform draw exceeds its score.
// It returns nil after MaxTrials full passes.
func (s *CardSampler) reject(candidates []*domain.Card, snapshot *srs.Snapshot) (*domain.Card, int) {
	n := len(candidates)
	offset := s.rng.IntN(n)
	for trial := 1; trial <= s.params.MaxTrials; trial++ {
		for j := range n {
			card := candidates[(offset+j)%n]
			if s.rng.Float64() > snapshot.Value(card.ID) {
				return card, trial
			}
		}
	}
	return nil, s.params.MaxTrials
}

// substitute swaps card for a similar one with probability 1 - 1/(n+1),
// where n is the number of similar cards.
func (s *CardSampler) substitute(
	deck *domain.Deck,
	graph *similarity.Graph,
	recent *RecencyBuffer,
	card *domain.Card,
) *domain.Card {
	similar := graph.Similar(card.Index)
	if len(similar) == 0 {
		return card
	}

	switchProb := 1 - 1/float64(len(similar)+1)
	if s.rng.Float64() >= switchProb {
		return card
	}

	substitute := deck.Cards[similar[s.rng.IntN(len(similar))]]
	if recent.Contains(substitute.ID) {
		return card
	}
	return substitute
}
