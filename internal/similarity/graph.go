// Package similarity builds the static graph of confusable cards of a deck.
// Groups of side values declared in a deck definition become undirected edges
// between the cards that carry those values.
package similarity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/phrazzld/scry-drill/internal/domain"
)

// ErrUnknownSide is returned when a similarity group names a side value that
// no card of the deck carries.
var ErrUnknownSide = errors.New("similarity group references unknown side value")

// ErrCardIndexOutOfRange is returned when the side index maps a value to a
// card index outside the deck.
var ErrCardIndexOutOfRange = errors.New("card index out of range")

// ReferenceError names the group and side value that failed to resolve.
type ReferenceError struct {
	Group int
	Side  string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: group %d, side %q", ErrUnknownSide, e.Group, e.Side)
}

// Unwrap returns ErrUnknownSide so callers can match with errors.Is.
func (e *ReferenceError) Unwrap() error {
	return ErrUnknownSide
}

// Graph maps each card index to the indices of cards it is confusable with.
// The relation is symmetric and never contains self-edges or duplicates.
type Graph struct {
	adj [][]int
}

// Build creates the graph for a deck of numCards cards. sideToCardIndex maps
// a side value to the card that carries it; each group lists side values whose
// cards are mutually similar.
func Build(numCards int, sideToCardIndex map[string]int, groups [][]string) (*Graph, error) {
	sets := make([]map[int]struct{}, numCards)

	for g, group := range groups {
		members := make([]int, 0, len(group))
		for _, side := range group {
			idx, ok := sideToCardIndex[side]
			if !ok {
				return nil, &ReferenceError{Group: g, Side: side}
			}
			if idx < 0 || idx >= numCards {
				return nil, fmt.Errorf("%w: side %q maps to card %d of %d",
					ErrCardIndexOutOfRange, side, idx, numCards)
			}
			members = append(members, idx)
		}

		for _, a := range members {
			for _, b := range members {
				if a == b {
					continue
				}
				if sets[a] == nil {
					sets[a] = make(map[int]struct{})
				}
				sets[a][b] = struct{}{}
			}
		}
	}

	adj := make([][]int, numCards)
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		neighbours := make([]int, 0, len(set))
		for j := range set {
			neighbours = append(neighbours, j)
		}
		slices.Sort(neighbours)
		adj[i] = neighbours
	}

	return &Graph{adj: adj}, nil
}

// Empty returns a graph without edges for a deck of numCards cards.
func Empty(numCards int) *Graph {
	return &Graph{adj: make([][]int, numCards)}
}

// HasSimilar reports whether card i has at least one similar card.
// A nil graph has no edges.
func (g *Graph) HasSimilar(i int) bool {
	return len(g.Similar(i)) > 0
}

// Similar returns the sorted indices of the cards similar to card i.
// The returned slice must not be modified.
func (g *Graph) Similar(i int) []int {
	if g == nil || i < 0 || i >= len(g.adj) {
		return nil
	}
	return g.adj[i]
}

// Len returns the number of cards the graph was built for.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.adj)
}

// SideIndex maps every text side value of the deck to the index of the first
// card carrying it. Image sides cannot be referenced by similarity groups.
func SideIndex(deck *domain.Deck) map[string]int {
	index := make(map[string]int, deck.Len()*deck.NumSides())
	for _, card := range deck.Cards {
		for _, side := range card.Sides {
			if side.IsImage() {
				continue
			}
			if _, seen := index[side.Value]; !seen {
				index[side.Value] = card.Index
			}
		}
	}
	return index
}
