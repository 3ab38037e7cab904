package testkit

import (
	"context"
	"fmt"
	"math/rand"

	"gazestats/domain/core"
	"gazestats/domain/signal"
	"gazestats/ports"
)

// GeneratorConfig describes a synthetic recording session: noisy trials with
// optional blink-like dropouts and a condition-locked effect window.
type GeneratorConfig struct {
	TrialsPerCondition int
	Samples            int
	SampleRate         float64
	Seed               int64

	Conditions []core.Condition
	BaseLevel  float64
	NoiseSD    float64
	EventIndex int

	// BlinkEvery inserts a missing-sample run into every n-th trial.
	// 0 disables dropouts.
	BlinkEvery  int
	BlinkStart  int
	BlinkLength int

	// EffectCondition receives an additive shift of EffectSize over
	// [EffectStart, EffectEnd), simulating a real condition difference.
	EffectCondition core.Condition
	EffectStart     int
	EffectEnd       int
	EffectSize      float64
}

// DefaultGeneratorConfig is a small two-condition session with sparse blinks.
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		TrialsPerCondition: 20,
		Samples:            100,
		SampleRate:         100,
		Seed:               seed,
		Conditions:         []core.Condition{"control", "target"},
		BaseLevel:          5.0,
		NoiseSD:            1.0,
		EventIndex:         10,
		BlinkEvery:         5,
		BlinkStart:         30,
		BlinkLength:        8,
		EffectCondition:    "target",
		EffectStart:        40,
		EffectEnd:          60,
		EffectSize:         2.0,
	}
}

// Generator produces deterministic synthetic batches. It implements
// ports.TrialLoader so tests and the demo binary can stand in for a real
// recording loader.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator creates a generator for the given session shape.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg}
}

// LoadTrials fabricates the session. Output is a pure function of the seed
// and configuration.
func (g *Generator) LoadTrials(ctx context.Context) ([]ports.RawTrial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(g.cfg.Seed))

	var out []ports.RawTrial
	counter := 0
	for _, cond := range g.cfg.Conditions {
		for i := 0; i < g.cfg.TrialsPerCondition; i++ {
			counter++
			samples := make([]float64, g.cfg.Samples)
			for j := range samples {
				samples[j] = g.cfg.BaseLevel + rng.NormFloat64()*g.cfg.NoiseSD
				if cond == g.cfg.EffectCondition && j >= g.cfg.EffectStart && j < g.cfg.EffectEnd {
					samples[j] += g.cfg.EffectSize
				}
			}
			if g.cfg.BlinkEvery > 0 && counter%g.cfg.BlinkEvery == 0 {
				end := g.cfg.BlinkStart + g.cfg.BlinkLength
				if end > len(samples) {
					end = len(samples)
				}
				for j := g.cfg.BlinkStart; j < end; j++ {
					samples[j] = signal.Missing
				}
			}
			out = append(out, ports.RawTrial{
				ID:         core.TrialID(fmt.Sprintf("%s-%03d", cond, i)),
				Condition:  cond,
				Samples:    samples,
				SampleRate: g.cfg.SampleRate,
				EventIndex: g.cfg.EventIndex,
			})
		}
	}
	return out, nil
}

// MakeTrial is a convenience for tests needing a single trial with explicit
// values.
func MakeTrial(id string, condition string, values []float64, rate float64) signal.Trial {
	return signal.NewTrial(core.TrialID(id), core.Condition(condition), values, rate)
}
