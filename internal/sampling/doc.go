// Package sampling selects which card to ask next and which cards to offer
// as wrong choices. Both samplers draw from an injected *rand.Rand so that a
// seeded source reproduces a session exactly.
//
// Card selection runs in three stages:
//  1. With a probability that grows with the share of mastered cards, pick a
//     card uniformly (exploration), so that mastered cards still come back.
//  2. Otherwise walk the deck in ID order, starting from a random card, and
//     accept each card not in the recency buffer with probability 1 - score
//     (rejection sampling).
//  3. If no card is accepted after the configured number of passes, fall back
//     to a uniform pick over the whole deck.
//
// The chosen card may then be swapped for one of its similar cards, which
// trains discrimination between confusable items.
package sampling
