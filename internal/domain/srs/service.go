package srs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/store"
)

// Common errors
var (
	ErrNilDeck = errors.New("deck cannot be nil")
	ErrNilCard = errors.New("card cannot be nil")
)

// Service defines the interface for scoring operations
type Service interface {
	// ScoreCard computes the current score of one card from its stored history.
	ScoreCard(ctx context.Context, deck *domain.Deck, card *domain.Card, now time.Time) (Score, error)

	// ScoreDeck computes a fresh snapshot for every card of the deck.
	ScoreDeck(ctx context.Context, deck *domain.Deck, now time.Time) (*Snapshot, error)

	// Params returns the parameters the service scores with.
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
	events store.EventStore
	logger *slog.Logger
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService(events store.EventStore, logger *slog.Logger) Service {
	return NewServiceWithParams(events, NewDefaultParams(), logger)
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(events store.EventStore, params *Params, logger *slog.Logger) Service {
	if events == nil {
		panic("events cannot be nil")
	}
	if params == nil {
		params = NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &defaultService{
		params: params,
		events: events,
		logger: logger.With(slog.String("component", "score_service")),
	}
}

// Params implements Service.Params
func (s *defaultService) Params() *Params {
	return s.params
}

// ScoreCard implements Service.ScoreCard
func (s *defaultService) ScoreCard(
	ctx context.Context,
	deck *domain.Deck,
	card *domain.Card,
	now time.Time,
) (Score, error) {
	if deck == nil {
		return Score{}, ErrNilDeck
	}
	if card == nil {
		return Score{}, ErrNilCard
	}

	events, err := s.events.ListByCard(ctx, deck.ID, card.ID)
	if err != nil {
		return Score{}, fmt.Errorf("failed to load history of card %s: %w", card.ID, err)
	}

	return ComputeScore(OutcomesFromEvents(events), deck.NumSides(), deck.RepetitionBoost, now, s.params), nil
}

// ScoreDeck implements Service.ScoreDeck
func (s *defaultService) ScoreDeck(ctx context.Context, deck *domain.Deck, now time.Time) (*Snapshot, error) {
	if deck == nil {
		return nil, ErrNilDeck
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	started := time.Now()

	scores := make(map[uuid.UUID]Score, deck.Len())
	for _, card := range deck.Cards {
		score, err := s.ScoreCard(ctx, deck, card, now)
		if err != nil {
			log.Error("failed to score card",
				slog.String("error", err.Error()),
				slog.String("deck_id", deck.ID.String()),
				slog.String("card_id", card.ID.String()))
			return nil, err
		}
		scores[card.ID] = score
	}

	snapshot := NewSnapshot(deck.ID, scores, s.params.MasteryThreshold, now)
	log.Debug("scored deck",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("cards", deck.Len()),
		slog.Int("mastered", snapshot.NumMastered),
		slog.Duration("elapsed", time.Since(started)))

	return snapshot, nil
}
