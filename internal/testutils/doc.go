// Package testutils provides fixtures shared by the package tests:
// decks built from plain string rows, answer histories, and score snapshots
// with chosen values.
//
// Decks use functional options:
//
//	deck := testutils.MustCreateDeckForTest(t,
//	    testutils.WithDeckName("capitals"),
//	    testutils.WithRows([][]string{{"France", "Paris"}, {"Japan", "Tokyo"}}),
//	    testutils.WithTypableSides(1),
//	)
//
// Histories are listed newest first, like the event stores return them:
//
//	events := testutils.AnswerHistory(t, deck.ID, card.ID, now, time.Hour, true, true, false)
package testutils
