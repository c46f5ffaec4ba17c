// Package deck loads deck definitions from JSON or YAML files, validates
// them, and builds the immutable domain.Deck together with its similarity
// graph. All validation happens here so that a study session never meets a
// malformed card.
//
// A definition looks like:
//
//	name: French greetings
//	sides: [french, english]
//	typableSides: [0]
//	repetitionBoost: 1.5
//	similar:
//	  - [bonjour, bonsoir]
//	cards:
//	  - sides: [bonjour, hello]
//	  - sides: [bonsoir, good evening]
//	  - id: night
//	    sides: [bonne nuit, good night]
//	  - sides: [soleil, "img:https://example.com/sun.png"]
package deck
