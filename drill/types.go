package drill

import (
	"github.com/phrazzld/scry-drill/internal/config"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/planner"
	"github.com/phrazzld/scry-drill/internal/study"
)

// Configuration
type (
	Config          = config.Config
	LogConfig       = config.LogConfig
	StoreConfig     = config.StoreConfig
	ScoringConfig   = config.ScoringConfig
	SamplingConfig  = config.SamplingConfig
	PlannerConfig   = config.PlannerConfig
	EvaluatorConfig = config.EvaluatorConfig
	SessionConfig   = config.SessionConfig
)

// Decks and scores
type (
	Deck     = domain.Deck
	Card     = domain.Card
	Side     = domain.Side
	Score    = srs.Score
	Snapshot = srs.Snapshot
)

// QuestionType tags the format of a question.
type QuestionType = domain.QuestionType

// Question formats
const (
	QuestionMultipleChoice = domain.QuestionMultipleChoice
	QuestionTyped          = domain.QuestionTyped
)

// Questions handed to the view layer
type (
	Question       = planner.Question
	QuestionHeader = planner.Header
	MultipleChoice = planner.MultipleChoice
	Typed          = planner.Typed
)

// Study sessions
type (
	Session      = study.Session
	SubmitAnswer = study.SubmitAnswer
	AnswerResult = study.AnswerResult
	CardStats    = study.CardStats
	ServiceError = study.ServiceError
	Option       = study.Option
)

// Options forwarded to the deck registry
var (
	WithClock = study.WithClock
	WithRand  = study.WithRand
)

// Session errors
var (
	ErrSessionComplete   = study.ErrSessionComplete
	ErrNoPendingQuestion = study.ErrNoPendingQuestion
	ErrCardMismatch      = study.ErrCardMismatch
	ErrInvalidAnswer     = study.ErrInvalidAnswer
	ErrCardNotFound      = study.ErrCardNotFound
	ErrDeckNotFound      = study.ErrDeckNotFound
	ErrDuplicateDeck     = study.ErrDuplicateDeck
	ErrNoDecks           = study.ErrNoDecks
)
