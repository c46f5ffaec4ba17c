// Package study ties the engine together into study sessions.
//
// A Session owns one deck with its similarity graph, recency buffer and score
// snapshot. It plans one question at a time, grades the answer, appends the
// answer event to the store and rescores the answered card before the next
// question is planned. A Registry holds the sessions of every loaded deck,
// routes recorded answers to the owning session, refreshes scores across
// decks concurrently and picks which deck to study next.
//
// The package also converts configuration groups into component parameters
// and opens the configured event store.
package study
