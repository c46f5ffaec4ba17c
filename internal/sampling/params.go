package sampling

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrInvalidParams is returned when sampling parameters are out of range.
var ErrInvalidParams = errors.New("invalid sampling parameters")

// Params defines all configurable parameters of card selection
type Params struct {
	// Exploration probability once every card is mastered
	MaxUniformProb float64

	// Exponent applied to the mastered fraction before scaling by MaxUniformProb
	MasteryExponent float64

	// Rejection sampling passes over the deck before the uniform fallback
	MaxTrials int

	// Number of recently asked cards excluded from selection
	RecencySize int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MaxUniformProb  float64
	MasteryExponent float64
	MaxTrials       int
	RecencySize     int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MaxUniformProb:  0.05,
		MasteryExponent: 1.0,
		MaxTrials:       1000,
		RecencySize:     5,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxUniformProb > 0 {
		params.MaxUniformProb = config.MaxUniformProb
	}
	if config.MasteryExponent > 0 {
		params.MasteryExponent = config.MasteryExponent
	}
	if config.MaxTrials > 0 {
		params.MaxTrials = config.MaxTrials
	}
	if config.RecencySize > 0 {
		params.RecencySize = config.RecencySize
	}

	return params
}

// Validate checks the parameter ranges.
func (p *Params) Validate() error {
	switch {
	case p.MaxUniformProb < 0 || p.MaxUniformProb > 1:
		return fmt.Errorf("%w: max uniform probability %v must be in [0, 1]", ErrInvalidParams, p.MaxUniformProb)
	case p.MasteryExponent <= 0:
		return fmt.Errorf("%w: mastery exponent %v must be positive", ErrInvalidParams, p.MasteryExponent)
	case p.MaxTrials < 1:
		return fmt.Errorf("%w: max trials %d must be at least 1", ErrInvalidParams, p.MaxTrials)
	case p.RecencySize < 0:
		return fmt.Errorf("%w: recency size %d must not be negative", ErrInvalidParams, p.RecencySize)
	}
	return nil
}

// NewRand returns a PCG-backed source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func defaultRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
