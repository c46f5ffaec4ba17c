package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Store     StoreConfig     `mapstructure:"store" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring" validate:"required"`
	Sampling  SamplingConfig  `mapstructure:"sampling" validate:"required"`
	Planner   PlannerConfig   `mapstructure:"planner" validate:"required"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator" validate:"required"`
	Session   SessionConfig   `mapstructure:"session" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// StoreConfig selects the answer event backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	// DSN is a file path for sqlite and a connection URL for postgres
	DSN string `mapstructure:"dsn" validate:"required_unless=Driver memory"`
}

// ScoringConfig contains the recall estimate tunables.
// Every tunable must be positive: a zero value in the component params
// stands for the default, so the loader rejects it.
type ScoringConfig struct {
	Base             float64 `mapstructure:"base" validate:"gt=0,lt=1"`
	DecayMult        float64 `mapstructure:"decay_mult" validate:"gt=0"`
	DecayOffsetDays  float64 `mapstructure:"decay_offset_days" validate:"gt=0"`
	NeverSeenDays    float64 `mapstructure:"never_seen_days" validate:"gt=0"`
	MasteryThreshold float64 `mapstructure:"mastery_threshold" validate:"gt=0,lte=1"`
}

// SamplingConfig contains next-card selection tunables.
type SamplingConfig struct {
	MaxUniformProb  float64 `mapstructure:"max_uniform_prob" validate:"gt=0,lte=1"`
	MasteryExponent float64 `mapstructure:"mastery_exponent" validate:"gt=0"`
	MaxTrials       int     `mapstructure:"max_trials" validate:"gt=0"`
	RecencySize     int     `mapstructure:"recency_size" validate:"gt=0"`
}

// PlannerConfig contains question format and distractor tunables.
type PlannerConfig struct {
	SimilarMCFloor float64 `mapstructure:"similar_mc_floor" validate:"gt=0,lte=1"`
	MCFloor        float64 `mapstructure:"mc_floor" validate:"gt=0,lte=1"`
	// Cards scoring below this get easy (uniform) distractors
	DistractorMasteryGate float64 `mapstructure:"distractor_mastery_gate" validate:"gt=0,lte=1"`
}

// EvaluatorConfig contains typed-answer tolerance settings.
type EvaluatorConfig struct {
	DistAllowed float64 `mapstructure:"dist_allowed" validate:"gt=0,lte=1"`
}

// SessionConfig contains study session settings.
type SessionConfig struct {
	// Maximum answers per session; 0 means unlimited
	CardLimit int `mapstructure:"card_limit" validate:"gte=0"`
	// Decks rescored concurrently by a registry refresh
	RefreshConcurrency int `mapstructure:"refresh_concurrency" validate:"gt=0"`
}
