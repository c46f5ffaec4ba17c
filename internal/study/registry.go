package study

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/answer"
	"github.com/phrazzld/scry-drill/internal/config"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/events"
	"github.com/phrazzld/scry-drill/internal/planner"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/phrazzld/scry-drill/internal/similarity"
	"github.com/phrazzld/scry-drill/internal/store"
	"golang.org/x/sync/errgroup"
)

// DefaultRefreshConcurrency bounds concurrent deck scoring passes.
const DefaultRefreshConcurrency = 4

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source of every session.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithRand seeds the registry's random choices. Each session's samplers get
// their own source derived from it.
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) {
		r.rng = rng
	}
}

// Registry owns the study sessions of every loaded deck.
type Registry struct {
	events         store.EventStore
	scorer         srs.Service
	emitter        *events.InMemoryEventEmitter
	samplingParams *sampling.Params
	plannerParams  *planner.Params
	gate           float64
	evaluator      *answer.Evaluator
	cardLimit      int
	concurrency    int
	clock          func() time.Time
	logger         *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	order    []uuid.UUID // Registration order, for deterministic deck selection
}

// Ensure Registry implements events.EventHandler interface
var _ events.EventHandler = (*Registry)(nil)

// NewRegistry creates a registry whose sessions record answers in eventStore.
// A nil cfg uses the defaults of every component. Parameters are validated.
// If logger is nil, a default logger will be used.
func NewRegistry(
	eventStore store.EventStore,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...Option,
) (*Registry, error) {
	if eventStore == nil {
		panic("eventStore cannot be nil")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	srsParams := SRSParams(cfg.Scoring)
	if err := srsParams.Validate(); err != nil {
		return nil, err
	}
	samplingParams := SamplingParams(cfg.Sampling)
	if err := samplingParams.Validate(); err != nil {
		return nil, err
	}
	plannerParams := PlannerParams(cfg.Planner)
	if err := plannerParams.Validate(); err != nil {
		return nil, err
	}

	concurrency := cfg.Session.RefreshConcurrency
	if concurrency <= 0 {
		concurrency = DefaultRefreshConcurrency
	}

	r := &Registry{
		events:         eventStore,
		scorer:         srs.NewServiceWithParams(eventStore, srsParams, logger),
		samplingParams: samplingParams,
		plannerParams:  plannerParams,
		gate:           DistractorGate(cfg.Planner),
		evaluator:      EvaluatorParams(cfg.Evaluator),
		cardLimit:      cfg.Session.CardLimit,
		concurrency:    concurrency,
		clock:          time.Now,
		logger:         logger.With(slog.String("component", "study_registry")),
		sessions:       make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = sampling.NewRand(rand.Uint64())
	}

	r.emitter = events.NewInMemoryEventEmitter(logger)
	r.emitter.RegisterHandler(r)

	return r, nil
}

// childRand derives an independent source for one sampler.
func (r *Registry) childRand() *rand.Rand {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return sampling.NewRand(r.rng.Uint64())
}

// Add creates the session of deck. A nil graph means no similar cards.
func (r *Registry) Add(deck *domain.Deck, graph *similarity.Graph) (*Session, error) {
	if deck == nil {
		return nil, srs.ErrNilDeck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[deck.ID]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateDeck, deck.Name)
	}

	cards := sampling.NewCardSampler(r.samplingParams, r.childRand(), r.logger)
	distractors := sampling.NewDistractorSampler(r.gate, r.childRand(), r.logger)
	session := NewSession(deck, graph, Components{
		Store:       r.events,
		Scorer:      r.scorer,
		Planner:     planner.NewPlanner(cards, distractors, r.plannerParams, r.childRand(), r.logger),
		Evaluator:   r.evaluator,
		Emitter:     r.emitter,
		RecencySize: r.samplingParams.RecencySize,
		CardLimit:   r.cardLimit,
		Clock:       r.clock,
	}, r.logger)

	r.sessions[deck.ID] = session
	r.order = append(r.order, deck.ID)

	r.logger.Info("deck registered",
		slog.String("deck_id", deck.ID.String()),
		slog.String("deck_name", deck.Name),
		slog.Int("cards", deck.Len()))
	return session, nil
}

// Session returns the session of a deck.
func (r *Registry) Session(deckID uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[deckID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	return s, nil
}

// Sessions returns every session in registration order.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

// HandleEvent routes a recorded answer to the session of its deck.
func (r *Registry) HandleEvent(ctx context.Context, event *events.AnswerRecordedEvent) error {
	r.mu.RLock()
	s, ok := r.sessions[event.DeckID]
	r.mu.RUnlock()

	if !ok {
		logger.FromContextOrDefault(ctx, r.logger).Debug("answer for unregistered deck",
			slog.String("deck_id", event.DeckID.String()),
			slog.String("event_id", event.ID.String()))
		return nil
	}
	return s.HandleEvent(ctx, event)
}

// RefreshAll rescores every deck, several decks at a time. Passes of the same
// deck never interleave because each session serializes its own.
func (r *Registry) RefreshAll(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, r.logger)
	sessions := r.Sessions()
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, s := range sessions {
		g.Go(func() error {
			if err := s.Refresh(gctx); err != nil {
				return fmt.Errorf("deck %q: %w", s.Deck().Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("failed to refresh decks", slog.String("error", err.Error()))
		return err
	}

	log.Debug("refreshed decks",
		slog.Int("decks", len(sessions)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

// SelectDeck picks a session at random, weighting each deck by its number of
// unmastered cards plus one so that fully mastered decks still come up.
func (r *Registry) SelectDeck() (*Session, error) {
	sessions := r.Sessions()
	if len(sessions) == 0 {
		return nil, ErrNoDecks
	}

	weights := make([]int, len(sessions))
	total := 0
	for i, s := range sessions {
		weights[i] = deckWeight(s)
		total += weights[i]
	}

	r.rngMu.Lock()
	pick := r.rng.IntN(total)
	r.rngMu.Unlock()

	for i, w := range weights {
		if pick < w {
			return sessions[i], nil
		}
		pick -= w
	}
	return sessions[len(sessions)-1], nil
}

func deckWeight(s *Session) int {
	mastered := 0
	if snap := s.Snapshot(); snap != nil {
		mastered = snap.NumMastered
	}
	return max(s.Deck().Len()-mastered, 0) + 1
}
