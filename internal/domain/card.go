package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardNoSides is returned when a card has no side values.
	ErrCardNoSides = errors.New("card must have at least one side")
)

// cardKeySeparator joins side contents when deriving a card ID. It cannot
// appear in YAML or JSON deck text without being escaped.
const cardKeySeparator = "\x1f"

// Card is a multi-sided flashcard. Computed recall state is kept in score
// snapshots, never on the card itself.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Index int       `json:"index"` // Position within the owning deck
	Sides []Side    `json:"sides"`
}

// NewCard creates a card whose ID is derived from the deck ID and its contents.
// A non-empty key replaces the contents as the hash input, so that cards with
// an explicit id survive edits to their text.
func NewCard(deckID uuid.UUID, index int, key string, sides []Side) (*Card, error) {
	card := &Card{
		ID:    CardID(deckID, key, sides),
		Index: index,
		Sides: sides,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// CardID derives the stable identifier of a card.
func CardID(deckID uuid.UUID, key string, sides []Side) uuid.UUID {
	if key == "" {
		raw := make([]string, len(sides))
		for i, s := range sides {
			raw[i] = s.Raw()
		}
		key = strings.Join(raw, cardKeySeparator)
	}
	return uuid.NewSHA1(deckID, []byte(key))
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if len(c.Sides) == 0 {
		return ErrCardNoSides
	}

	return nil
}

// Side returns the side at index i.
func (c *Card) Side(i int) (Side, error) {
	if i < 0 || i >= len(c.Sides) {
		return Side{}, ErrSideIndexOutOfRange
	}
	return c.Sides[i], nil
}
