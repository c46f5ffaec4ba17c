package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/config"
	"github.com/phrazzld/scry-drill/internal/deck"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/platform/logger"
	"github.com/phrazzld/scry-drill/internal/store"
	"github.com/phrazzld/scry-drill/internal/study"
)

// Engine holds the configured event store and the sessions of every loaded
// deck. Close releases the store.
type Engine struct {
	config   *config.Config
	logger   *slog.Logger
	events   store.EventStore
	registry *study.Registry
}

// Open builds an engine from a configuration file and deck files.
// An empty cfgPath searches for drill.yaml in the working directory and in
// $HOME/.scry-drill; DRILL_* environment variables override either. The
// configured logger becomes the default slog logger.
func Open(ctx context.Context, cfgPath string, deckPaths ...string) (*Engine, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_driver", cfg.Store.Driver))

	return New(ctx, cfg, log, deckPaths)
}

// New builds an engine from an already loaded configuration. A nil cfg uses
// the in-memory store and default tunables. If log is nil, a default logger
// will be used. Every deck is scored before New returns.
func New(ctx context.Context, cfg *Config, log *slog.Logger, deckPaths []string, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		log = slog.Default()
	}

	events, err := study.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}

	registry, err := study.NewRegistry(events, cfg, log, opts...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create deck registry: %w", err), events.Close())
	}

	e := &Engine{
		config:   cfg,
		logger:   log.With(slog.String("component", "engine")),
		events:   events,
		registry: registry,
	}

	for _, path := range deckPaths {
		if _, err := e.LoadDeck(path); err != nil {
			return nil, errors.Join(err, events.Close())
		}
	}

	if err := registry.RefreshAll(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to score decks: %w", err), events.Close())
	}

	e.logger.Info("engine ready", slog.Int("decks", len(deckPaths)))
	return e, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *Config {
	return e.config
}

// LoadDeck reads a deck file and registers its session. The session is
// scored lazily by its first question; call Refresh to score it now.
func (e *Engine) LoadDeck(path string) (*Session, error) {
	d, graph, err := deck.LoadFile(path)
	if err != nil {
		return nil, err
	}

	session, err := e.registry.Add(d, graph)
	if err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return session, nil
}

// Sessions returns the session of every deck in load order.
func (e *Engine) Sessions() []*Session {
	return e.registry.Sessions()
}

// Session returns the session of a deck.
func (e *Engine) Session(deckID uuid.UUID) (*Session, error) {
	return e.registry.Session(deckID)
}

// SessionByName returns the session of the deck with the given name.
func (e *Engine) SessionByName(name string) (*Session, error) {
	return e.registry.Session(domain.DeckID(name))
}

// SelectDeck picks a deck to study, favouring decks with unmastered cards.
func (e *Engine) SelectDeck() (*Session, error) {
	return e.registry.SelectDeck()
}

// Refresh rescores every deck from the event store.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.registry.RefreshAll(ctx)
}

// Close releases the event store.
func (e *Engine) Close() error {
	if err := e.events.Close(); err != nil {
		e.logger.Error("failed to close event store", slog.String("error", err.Error()))
		return err
	}
	return nil
}
