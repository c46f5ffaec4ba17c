// Package planner turns the next sampled card into a question: it chooses the
// exercise format, the prompt and answer sides, and for multiple-choice
// questions the distractors and their order.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/phrazzld/scry-drill/internal/similarity"
)

// ErrNoQuestionFormat is returned for decks that support neither format:
// fewer than three cards and no typable side.
var ErrNoQuestionFormat = errors.New("deck supports no question format")

// ErrInvalidParams is returned when planner parameters are out of range.
var ErrInvalidParams = errors.New("invalid planner parameters")

// Params defines the multiple-choice probability floors.
type Params struct {
	// Floor for cards with similar cards: discrimination practice
	SimilarMCFloor float64

	// Floor for all other cards
	MCFloor float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		SimilarMCFloor: 0.5,
		MCFloor:        0.05,
	}
}

// Validate checks that both floors are probabilities.
func (p *Params) Validate() error {
	if p.SimilarMCFloor < 0 || p.SimilarMCFloor > 1 || p.MCFloor < 0 || p.MCFloor > 1 {
		return fmt.Errorf("%w: floors %v and %v must be in [0, 1]", ErrInvalidParams, p.SimilarMCFloor, p.MCFloor)
	}
	return nil
}

// Planner produces questions for a deck.
type Planner struct {
	cards       *sampling.CardSampler
	distractors *sampling.DistractorSampler
	params      *Params
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewPlanner creates a planner. Nil params use the defaults; a nil rng is
// seeded from the clock. If logger is nil, a default logger will be used.
func NewPlanner(
	cards *sampling.CardSampler,
	distractors *sampling.DistractorSampler,
	params *Params,
	rng *rand.Rand,
	logger *slog.Logger,
) *Planner {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if distractors == nil {
		panic("distractors cannot be nil")
	}
	if params == nil {
		params = NewDefaultParams()
	}
	if rng == nil {
		rng = sampling.NewRand(rand.Uint64())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		cards:       cards,
		distractors: distractors,
		params:      params,
		rng:         rng,
		logger:      logger.With(slog.String("component", "planner")),
	}
}

// Plan selects the next card and builds a question for it. Multiple choice is
// used with probability max(floor, 1 - score), always when the deck has no
// typable side, and never when the deck has fewer than three cards.
func (p *Planner) Plan(
	deck *domain.Deck,
	snapshot *srs.Snapshot,
	graph *similarity.Graph,
	recent *sampling.RecencyBuffer,
) (Question, error) {
	mcPossible := deck.Len() > domain.MaxAlternatives
	typedPossible := deck.HasTypableSides()
	if !mcPossible && !typedPossible {
		return nil, fmt.Errorf("%w: deck %q has %d cards and no typable side",
			ErrNoQuestionFormat, deck.Name, deck.Len())
	}

	card, sel := p.cards.SelectNext(deck, snapshot, graph, recent)

	floor := p.params.MCFloor
	if graph.HasSimilar(card.Index) {
		floor = p.params.SimilarMCFloor
	}
	score := snapshot.Value(card.ID)

	useMC := mcPossible && (!typedPossible || p.rng.Float64() < max(floor, 1-score))

	p.logger.Debug("planning question",
		slog.String("card_id", card.ID.String()),
		slog.String("selection", string(sel.Kind)),
		slog.Bool("substituted", sel.Substituted),
		slog.Float64("score", score),
		slog.Bool("multiple_choice", useMC))

	if useMC {
		q, err := p.multipleChoice(deck, snapshot, graph, card, sel)
		if err != nil {
			return nil, err
		}
		return q, nil
	}
	return p.typed(deck, card, sel), nil
}

func (p *Planner) header(deck *domain.Deck, card *domain.Card, sel sampling.Selection, front, back int) Header {
	return Header{
		Card:      card,
		FrontSide: front,
		BackSide:  back,
		FrontName: deck.SideName(front),
		BackName:  deck.SideName(back),
		Front:     card.Sides[front],
		Selection: sel,
	}
}

func (p *Planner) multipleChoice(
	deck *domain.Deck,
	snapshot *srs.Snapshot,
	graph *similarity.Graph,
	card *domain.Card,
	sel sampling.Selection,
) (*MultipleChoice, error) {
	front := p.rng.IntN(deck.NumSides())
	back := p.otherSide(deck.NumSides(), front)

	distractors, err := p.distractors.Sample(deck, snapshot, graph, card)
	if err != nil {
		return nil, fmt.Errorf("failed to sample distractors: %w", err)
	}

	cards := append([]*domain.Card{card}, distractors...)
	p.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	q := &MultipleChoice{
		Header:      p.header(deck, card, sel, front, back),
		Choices:     make([]domain.Side, len(cards)),
		ChoiceCards: cards,
	}
	for i, c := range cards {
		q.Choices[i] = c.Sides[back]
		if c.ID == card.ID {
			q.CorrectIndex = i
		}
	}
	return q, nil
}

func (p *Planner) typed(deck *domain.Deck, card *domain.Card, sel sampling.Selection) *Typed {
	back := deck.TypableSides[p.rng.IntN(len(deck.TypableSides))]
	front := p.otherSide(deck.NumSides(), back)

	return &Typed{
		Header: p.header(deck, card, sel, front, back),
		Answer: card.Sides[back].Value,
		All:    card.Sides,
	}
}

// otherSide draws a side index in [0, n) different from exclude.
func (p *Planner) otherSide(n, exclude int) int {
	side := p.rng.IntN(n - 1)
	if side >= exclude {
		side++
	}
	return side
}
