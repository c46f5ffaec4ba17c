// Package drill is the entry point for programs embedding the flashcard
// drilling engine, such as a view layer rendering questions.
//
// Open wires the whole engine together: it loads configuration, sets up
// logging, opens and migrates the answer event store, loads deck files, and
// scores every deck from its recorded history. The resulting Engine hands out
// one Session per deck; a session plans questions and records answers.
//
//	engine, err := drill.Open(ctx, "drill.yaml", "decks/french.yaml")
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	session, err := engine.SelectDeck()
//	q, err := session.NextQuestion(ctx)
//	result, err := session.SubmitAnswer(ctx, drill.SubmitAnswer{CardID: q.Target().ID, Text: typed})
//
// The types exported here are aliases of the engine's internal types, so
// values flow between this package and the engine without conversion.
package drill
