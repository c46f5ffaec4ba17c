package srs_test

import (
	"testing"

	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/stretchr/testify/assert"
)

func TestNewParams(t *testing.T) {
	t.Parallel()

	defaults := srs.NewDefaultParams()
	assert.Equal(t, 0.15, defaults.Base)
	assert.Equal(t, 5.0, defaults.DecayMult)
	assert.Equal(t, 5.0, defaults.DecayOffsetDays)
	assert.Equal(t, 36500.0, defaults.NeverSeenDays)
	assert.Equal(t, 0.99, defaults.MasteryThreshold)
	assert.NoError(t, defaults.Validate())

	custom := srs.NewParams(srs.ParamsConfig{Base: 0.2, MasteryThreshold: 0.95})
	assert.Equal(t, 0.2, custom.Base)
	assert.Equal(t, 0.95, custom.MasteryThreshold)
	assert.Equal(t, 5.0, custom.DecayMult, "zero keeps the default")
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*srs.Params)
	}{
		{"base of one", func(p *srs.Params) { p.Base = 1 }},
		{"zero base", func(p *srs.Params) { p.Base = 0 }},
		{"zero decay multiplier", func(p *srs.Params) { p.DecayMult = 0 }},
		{"negative offset", func(p *srs.Params) { p.DecayOffsetDays = -1 }},
		{"zero never-seen days", func(p *srs.Params) { p.NeverSeenDays = 0 }},
		{"threshold above one", func(p *srs.Params) { p.MasteryThreshold = 1.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := srs.NewDefaultParams()
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), srs.ErrInvalidParams)
		})
	}
}
