package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when scoring parameters are out of range.
var ErrInvalidParams = errors.New("invalid scoring parameters")

// Params defines all configurable parameters of the recall estimate
type Params struct {
	// Base of the saturation curve 1 - Base^k. Smaller values reach 1.0 with
	// fewer consecutive correct answers.
	Base float64

	// Decay shape: decayBase = 1 - 1/(k*DecayMult + 1)
	DecayMult float64

	// Days of grace per unit of k before decay starts
	DecayOffsetDays float64

	// Days-since-seen reported for cards with no history
	NeverSeenDays float64

	// Score above which a card counts as mastered
	MasteryThreshold float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	Base             float64
	DecayMult        float64
	DecayOffsetDays  float64
	NeverSeenDays    float64
	MasteryThreshold float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Base:             0.15,
		DecayMult:        5.0,
		DecayOffsetDays:  5.0,
		NeverSeenDays:    36500, // a century
		MasteryThreshold: 0.99,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.Base > 0 {
		params.Base = config.Base
	}
	if config.DecayMult > 0 {
		params.DecayMult = config.DecayMult
	}
	if config.DecayOffsetDays > 0 {
		params.DecayOffsetDays = config.DecayOffsetDays
	}
	if config.NeverSeenDays > 0 {
		params.NeverSeenDays = config.NeverSeenDays
	}
	if config.MasteryThreshold > 0 {
		params.MasteryThreshold = config.MasteryThreshold
	}

	return params
}

// Validate checks that every parameter keeps scores inside [0, 1].
func (p *Params) Validate() error {
	switch {
	case p.Base <= 0 || p.Base >= 1:
		return fmt.Errorf("%w: base %v must be in (0, 1)", ErrInvalidParams, p.Base)
	case p.DecayMult <= 0:
		return fmt.Errorf("%w: decay multiplier %v must be positive", ErrInvalidParams, p.DecayMult)
	case p.DecayOffsetDays < 0:
		return fmt.Errorf("%w: decay offset %v must not be negative", ErrInvalidParams, p.DecayOffsetDays)
	case p.NeverSeenDays <= 0:
		return fmt.Errorf("%w: never-seen sentinel %v must be positive", ErrInvalidParams, p.NeverSeenDays)
	case p.MasteryThreshold <= 0 || p.MasteryThreshold > 1:
		return fmt.Errorf("%w: mastery threshold %v must be in (0, 1]", ErrInvalidParams, p.MasteryThreshold)
	}
	return nil
}
