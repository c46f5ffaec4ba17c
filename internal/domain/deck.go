package domain

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DefaultRepetitionBoost is used when a deck does not set its own boost.
const DefaultRepetitionBoost = 1.0

// deckNamespace scopes deck IDs so that they never collide with other UUIDv5 users.
var deckNamespace = uuid.MustParse("6f1c7a52-3c1e-5b8e-9d0a-2f6c4b1e8a73")

// Deck-specific validation errors
var (
	// ErrDeckNameEmpty is returned when a deck has no name.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckTooFewSides is returned when a deck defines fewer than two sides.
	ErrDeckTooFewSides = errors.New("deck must define at least two sides")

	// ErrDeckNoCards is returned when a deck contains no cards.
	ErrDeckNoCards = errors.New("deck must contain at least one card")

	// ErrDuplicateCard is returned when two cards hash to the same ID.
	ErrDuplicateCard = errors.New("duplicate card")

	// ErrInvalidRepetitionBoost is returned for a negative repetition boost.
	ErrInvalidRepetitionBoost = errors.New("repetition boost must be >= 0")

	// ErrTypableSideImage is returned when a typable side holds an image.
	ErrTypableSideImage = errors.New("typable side must contain text")
)

// CardInput is the raw material for one card of a deck.
type CardInput struct {
	Key   string // Optional explicit identifier
	Sides []Side
}

// Deck is an immutable collection of cards sharing the same side layout.
type Deck struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	SideNames       []string  `json:"sides"`
	TypableSides    []int     `json:"typable_sides"`
	RepetitionBoost float64   `json:"repetition_boost"`
	Cards           []*Card   `json:"cards"`

	byID    map[uuid.UUID]*Card
	ordered []*Card
}

// DeckID derives the stable identifier of a deck from its name.
func DeckID(name string) uuid.UUID {
	return uuid.NewSHA1(deckNamespace, []byte(name))
}

// NewDeck builds and validates a deck. Every card must carry exactly one value
// per side name; mismatches fail here rather than during a study session.
// A zero repetition boost is treated as unset.
func NewDeck(
	name string,
	sideNames []string,
	typableSides []int,
	repetitionBoost float64,
	inputs []CardInput,
) (*Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDeckNameEmpty
	}
	if len(sideNames) < 2 {
		return nil, ErrDeckTooFewSides
	}
	if len(inputs) == 0 {
		return nil, ErrDeckNoCards
	}
	if repetitionBoost < 0 {
		return nil, ErrInvalidRepetitionBoost
	}
	if repetitionBoost == 0 {
		repetitionBoost = DefaultRepetitionBoost
	}

	typable := slices.Clone(typableSides)
	slices.Sort(typable)
	typable = slices.Compact(typable)
	for _, idx := range typable {
		if idx < 0 || idx >= len(sideNames) {
			return nil, fmt.Errorf("%w: typable side %d", ErrSideIndexOutOfRange, idx)
		}
	}

	deck := &Deck{
		ID:              DeckID(name),
		Name:            name,
		SideNames:       slices.Clone(sideNames),
		TypableSides:    typable,
		RepetitionBoost: repetitionBoost,
		Cards:           make([]*Card, 0, len(inputs)),
		byID:            make(map[uuid.UUID]*Card, len(inputs)),
	}

	for i, in := range inputs {
		if len(in.Sides) != len(sideNames) {
			return nil, fmt.Errorf("%w: card %d has %d sides, deck %q has %d",
				ErrSideCountMismatch, i, len(in.Sides), name, len(sideNames))
		}
		for _, idx := range typable {
			if in.Sides[idx].IsImage() {
				return nil, fmt.Errorf("%w: card %d side %q", ErrTypableSideImage, i, sideNames[idx])
			}
		}

		card, err := NewCard(deck.ID, i, in.Key, slices.Clone(in.Sides))
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		if _, exists := deck.byID[card.ID]; exists {
			return nil, fmt.Errorf("%w: card %d duplicates an earlier card", ErrDuplicateCard, i)
		}

		deck.Cards = append(deck.Cards, card)
		deck.byID[card.ID] = card
	}

	deck.ordered = slices.Clone(deck.Cards)
	slices.SortFunc(deck.ordered, func(a, b *Card) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return deck, nil
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// NumSides returns the number of sides every card carries.
func (d *Deck) NumSides() int {
	return len(d.SideNames)
}

// CardByID looks up a card of this deck.
func (d *Deck) CardByID(id uuid.UUID) (*Card, bool) {
	card, ok := d.byID[id]
	return card, ok
}

// Ordered returns the cards sorted by ID. Sampling iterates this order so that
// results depend only on the random source, not on file layout.
func (d *Deck) Ordered() []*Card {
	return d.ordered
}

// HasTypableSides reports whether any side accepts typed answers.
func (d *Deck) HasTypableSides() bool {
	return len(d.TypableSides) > 0
}

// IsTypable reports whether side i accepts typed answers.
func (d *Deck) IsTypable(i int) bool {
	_, found := slices.BinarySearch(d.TypableSides, i)
	return found
}

// SideName returns the display name of side i.
func (d *Deck) SideName(i int) string {
	if i < 0 || i >= len(d.SideNames) {
		return ""
	}
	return d.SideNames[i]
}
