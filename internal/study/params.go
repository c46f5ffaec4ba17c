package study

import (
	"github.com/phrazzld/scry-drill/internal/answer"
	"github.com/phrazzld/scry-drill/internal/config"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/planner"
	"github.com/phrazzld/scry-drill/internal/sampling"
)

// SRSParams converts the scoring group into score model parameters.
// Zero values keep the defaults.
func SRSParams(cfg config.ScoringConfig) *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		Base:             cfg.Base,
		DecayMult:        cfg.DecayMult,
		DecayOffsetDays:  cfg.DecayOffsetDays,
		NeverSeenDays:    cfg.NeverSeenDays,
		MasteryThreshold: cfg.MasteryThreshold,
	})
}

// SamplingParams converts the sampling group into card sampler parameters.
// Zero values keep the defaults.
func SamplingParams(cfg config.SamplingConfig) *sampling.Params {
	return sampling.NewParams(sampling.ParamsConfig{
		MaxUniformProb:  cfg.MaxUniformProb,
		MasteryExponent: cfg.MasteryExponent,
		MaxTrials:       cfg.MaxTrials,
		RecencySize:     cfg.RecencySize,
	})
}

// PlannerParams converts the planner group into format choice parameters.
// Zero values keep the defaults.
func PlannerParams(cfg config.PlannerConfig) *planner.Params {
	params := planner.NewDefaultParams()
	if cfg.SimilarMCFloor > 0 {
		params.SimilarMCFloor = cfg.SimilarMCFloor
	}
	if cfg.MCFloor > 0 {
		params.MCFloor = cfg.MCFloor
	}
	return params
}

// DistractorGate returns the score below which distractors are uniform.
func DistractorGate(cfg config.PlannerConfig) float64 {
	if cfg.DistractorMasteryGate > 0 {
		return cfg.DistractorMasteryGate
	}
	return sampling.DefaultMasteryGate
}

// EvaluatorParams converts the evaluator group into a typed-answer evaluator.
func EvaluatorParams(cfg config.EvaluatorConfig) *answer.Evaluator {
	return answer.NewEvaluator(cfg.DistAllowed)
}
