package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/answer"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/events"
	"github.com/phrazzld/scry-drill/internal/planner"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/phrazzld/scry-drill/internal/similarity"
	"github.com/phrazzld/scry-drill/internal/store"
)

// SubmitAnswer is the user's answer to the pending question.
type SubmitAnswer struct {
	CardID        uuid.UUID // Card of the pending question
	AnsweredIndex int       // Chosen slot of a multiple-choice question
	Text          string    // Typed answer of a typed question
	AnsweredAt    time.Time // Zero means the session clock's now
}

// AnswerResult describes how an answer was graded and recorded.
type AnswerResult struct {
	Correct bool

	// WrongSide is set when a typed answer matched another side of the card.
	// Such answers are not recorded and the question stays pending.
	WrongSide   bool
	MatchedSide int

	Distance     int // Edit distance of a typed answer
	CorrectIndex int // Correct slot of a multiple-choice question

	// Event is the recorded answer, nil when nothing was recorded.
	Event *domain.AnswerEvent

	// Duplicate is set when the store already held an answer for the same
	// card at the same instant; the stored answer stays authoritative.
	Duplicate bool

	// Score is the card's score after the answer was recorded.
	Score srs.Score
}

// CardStats summarizes the history of one card.
type CardStats struct {
	CardID         uuid.UUID
	Correct        int
	Incorrect      int
	LastAnsweredAt time.Time // Zero when the card was never answered
	Score          srs.Score
}

// Components holds the collaborators of a session.
type Components struct {
	Store     store.EventStore  // Required
	Scorer    srs.Service       // Required
	Planner   *planner.Planner  // Required; owned by the session
	Evaluator *answer.Evaluator // Nil uses the default tolerance

	// Emitter publishes recorded answers. When nil the session dispatches
	// to itself through a private emitter.
	Emitter events.EventEmitter

	RecencySize int              // 0 uses the sampling default; capped below the deck size
	CardLimit   int              // Recorded answers per session; 0 is unlimited
	Clock       func() time.Time // Nil uses time.Now
}

// Session drills one deck. One question is in flight at a time.
type Session struct {
	deck      *domain.Deck
	graph     *similarity.Graph
	events    store.EventStore
	scorer    srs.Service
	planner   *planner.Planner
	evaluator *answer.Evaluator
	emitter   events.EventEmitter
	limit     int
	clock     func() time.Time
	logger    *slog.Logger

	// scoreMu serializes scoring passes; it is always taken before mu.
	scoreMu sync.Mutex

	mu       sync.Mutex
	recent   *sampling.RecencyBuffer
	snapshot *srs.Snapshot
	pending  planner.Question
	answered int
}

// Ensure Session implements events.EventHandler interface
var _ events.EventHandler = (*Session)(nil)

// NewSession creates a session for deck. A nil graph means no similar cards.
// If logger is nil, a default logger will be used.
func NewSession(deck *domain.Deck, graph *similarity.Graph, c Components, logger *slog.Logger) *Session {
	if deck == nil {
		panic("deck cannot be nil")
	}
	if c.Store == nil {
		panic("store cannot be nil")
	}
	if c.Scorer == nil {
		panic("scorer cannot be nil")
	}
	if c.Planner == nil {
		panic("planner cannot be nil")
	}
	if graph == nil {
		graph = similarity.Empty(deck.Len())
	}
	if c.Evaluator == nil {
		c.Evaluator = answer.NewEvaluator(answer.DefaultDistAllowed)
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.RecencySize <= 0 {
		c.RecencySize = sampling.NewDefaultParams().RecencySize
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		deck:      deck,
		graph:     graph,
		events:    c.Store,
		scorer:    c.Scorer,
		planner:   c.Planner,
		evaluator: c.Evaluator,
		emitter:   c.Emitter,
		limit:     max(c.CardLimit, 0),
		clock:     c.Clock,
		recent:    sampling.NewRecencyBuffer(min(c.RecencySize, deck.Len()-1)),
		logger: logger.With(
			slog.String("component", "study_session"),
			slog.String("deck_id", deck.ID.String())),
	}

	if s.emitter == nil {
		emitter := events.NewInMemoryEventEmitter(logger)
		emitter.RegisterHandler(s)
		s.emitter = emitter
	}

	return s
}

// Deck returns the deck being studied.
func (s *Session) Deck() *domain.Deck {
	return s.deck
}

// Graph returns the similarity graph of the deck.
func (s *Session) Graph() *similarity.Graph {
	return s.graph
}

// Snapshot returns the current scores, nil before the first scoring pass.
func (s *Session) Snapshot() *srs.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Recent returns the recently asked card IDs, oldest first.
func (s *Session) Recent() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.IDs()
}

// Answered returns the number of recorded answers in this session.
func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answered
}

// Pending returns the question awaiting an answer, or nil.
func (s *Session) Pending() planner.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Refresh rescores every card of the deck from the store.
func (s *Session) Refresh(ctx context.Context) error {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	_, err := s.refreshLocked(ctx)
	return err
}

// refreshLocked runs a full scoring pass; scoreMu must be held.
func (s *Session) refreshLocked(ctx context.Context) (*srs.Snapshot, error) {
	snapshot, err := s.scorer.ScoreDeck(ctx, s.deck, s.clock())
	if err != nil {
		return nil, NewRefreshError("failed to score deck", err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

// Rescore recomputes one card's score and replaces it in the snapshot.
// Before the first scoring pass the whole deck is scored instead.
func (s *Session) Rescore(ctx context.Context, cardID uuid.UUID) (srs.Score, error) {
	card, ok := s.deck.CardByID(cardID)
	if !ok {
		return srs.Score{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}

	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	s.mu.Lock()
	unscored := s.snapshot == nil
	s.mu.Unlock()

	if unscored {
		snapshot, err := s.refreshLocked(ctx)
		if err != nil {
			return srs.Score{}, err
		}
		return snapshot.Score(card.ID), nil
	}

	now := s.clock()
	score, err := s.scorer.ScoreCard(ctx, s.deck, card, now)
	if err != nil {
		return srs.Score{}, NewRefreshError("failed to score card", err)
	}

	s.mu.Lock()
	s.snapshot = s.snapshot.With(card.ID, score, now)
	s.mu.Unlock()
	return score, nil
}

// HandleEvent rescores the answered card. Events of other decks are ignored.
func (s *Session) HandleEvent(ctx context.Context, event *events.AnswerRecordedEvent) error {
	if event.DeckID != s.deck.ID {
		return nil
	}
	_, err := s.Rescore(ctx, event.CardID)
	return err
}

// NextQuestion plans the next question. While a question is pending it is
// returned again. Once the card limit is reached ErrSessionComplete is returned.
// The deck is scored first if no scoring pass has run yet.
func (s *Session) NextQuestion(ctx context.Context) (planner.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	if s.pending != nil {
		q := s.pending
		s.mu.Unlock()
		return q, nil
	}
	if s.limit > 0 && s.answered >= s.limit {
		s.mu.Unlock()
		return nil, ErrSessionComplete
	}
	unscored := s.snapshot == nil
	s.mu.Unlock()

	if unscored {
		if err := s.Refresh(ctx); err != nil {
			log.Error("failed to score deck before planning",
				slog.String("error", err.Error()))
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have planned while the deck was being scored.
	if s.pending != nil {
		return s.pending, nil
	}

	q, err := s.planner.Plan(s.deck, s.snapshot, s.graph, s.recent)
	if err != nil {
		log.Error("failed to plan question", slog.String("error", err.Error()))
		return nil, NewNextQuestionError("failed to plan question", err)
	}
	s.pending = q

	front, back := q.Sides()
	log.Debug("question planned",
		slog.String("card_id", q.Target().ID.String()),
		slog.String("format", string(q.Format())),
		slog.Int("front_side", front),
		slog.Int("back_side", back))

	return q, nil
}

// SubmitAnswer grades the answer to the pending question, records it and
// rescores the card. A typed answer matching another side of the card is
// reported as WrongSide and is not recorded; the question stays pending.
func (s *Session) SubmitAnswer(ctx context.Context, cmd SubmitAnswer) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	q := s.pending
	s.mu.Unlock()

	if q == nil {
		return nil, ErrNoPendingQuestion
	}
	card := q.Target()
	if cmd.CardID != card.ID {
		log.Warn("answer for a card that was not asked",
			slog.String("card_id", cmd.CardID.String()),
			slog.String("pending_card_id", card.ID.String()))
		return nil, fmt.Errorf("%w: got %s, asked %s", ErrCardMismatch, cmd.CardID, card.ID)
	}

	result, alternatives, err := s.grade(q, cmd)
	if err != nil {
		return nil, err
	}
	if result.WrongSide {
		log.Debug("answer matched another side",
			slog.String("card_id", card.ID.String()),
			slog.Int("matched_side", result.MatchedSide))
		return result, nil
	}

	at := cmd.AnsweredAt
	if at.IsZero() {
		at = s.clock()
	}
	front, back := q.Sides()
	event, err := domain.NewAnswerEvent(s.deck.ID, card.ID, q.Format(), front, back, alternatives, result.Correct, at)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to build answer event", err)
	}

	if err := s.events.Append(ctx, event); err != nil {
		if !errors.Is(err, store.ErrDuplicateEvent) {
			log.Error("failed to record answer",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return nil, NewSubmitAnswerError("failed to record answer", err)
		}
		log.Warn("answer already recorded",
			slog.String("card_id", card.ID.String()),
			slog.Time("answered_at", event.AnsweredAt))
		result.Duplicate = true
	} else {
		result.Event = event
	}

	s.mu.Lock()
	if s.pending == q {
		s.pending = nil
		s.answered++
	}
	s.mu.Unlock()

	if err := s.emitter.EmitEvent(ctx, events.NewAnswerRecordedEvent(event)); err != nil {
		log.Error("failed to rescore answered card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return nil, NewSubmitAnswerError("answer recorded but rescoring failed", err)
	}

	result.Score = s.Snapshot().Score(card.ID)

	log.Debug("answer recorded",
		slog.String("card_id", card.ID.String()),
		slog.String("format", string(q.Format())),
		slog.Bool("correct", result.Correct),
		slog.Float64("score", result.Score.Value))

	return result, nil
}

// grade evaluates cmd against q and returns the alternatives to record.
func (s *Session) grade(q planner.Question, cmd SubmitAnswer) (*AnswerResult, []uuid.UUID, error) {
	switch q := q.(type) {
	case *planner.MultipleChoice:
		if cmd.AnsweredIndex < 0 || cmd.AnsweredIndex >= len(q.Choices) {
			return nil, nil, fmt.Errorf("%w: choice %d of %d", ErrInvalidAnswer, cmd.AnsweredIndex, len(q.Choices))
		}
		return &AnswerResult{
			Correct:      q.IsCorrect(cmd.AnsweredIndex),
			CorrectIndex: q.CorrectIndex,
			MatchedSide:  -1,
		}, q.Alternatives(), nil

	case *planner.Typed:
		verdict, err := s.evaluator.CheckTyped(q, cmd.Text)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
		}
		return &AnswerResult{
			Correct:      verdict.Correct,
			WrongSide:    verdict.WrongSide,
			MatchedSide:  verdict.MatchedSide,
			Distance:     verdict.Distance,
			CorrectIndex: -1,
		}, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown question format %q", ErrInvalidAnswer, q.Format())
	}
}

// CardStats counts the correct and incorrect answers of a card.
func (s *Session) CardStats(ctx context.Context, cardID uuid.UUID) (*CardStats, error) {
	if _, ok := s.deck.CardByID(cardID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}

	correct, err := s.events.ListByCardOutcome(ctx, s.deck.ID, cardID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list correct answers: %w", err)
	}
	incorrect, err := s.events.ListByCardOutcome(ctx, s.deck.ID, cardID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list incorrect answers: %w", err)
	}

	stats := &CardStats{
		CardID:    cardID,
		Correct:   len(correct),
		Incorrect: len(incorrect),
		Score:     s.Snapshot().Score(cardID),
	}
	for _, list := range [][]*domain.AnswerEvent{correct, incorrect} {
		if len(list) > 0 && list[0].AnsweredAt.After(stats.LastAnsweredAt) {
			stats.LastAnsweredAt = list[0].AnsweredAt
		}
	}
	return stats, nil
}
