package testkit

import (
	"context"
	"testing"

	"gazestats/domain/signal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_DeterministicForSeed(t *testing.T) {
	cfg := DefaultGeneratorConfig(17)
	first, err := NewGenerator(cfg).LoadTrials(context.Background())
	require.NoError(t, err)
	second, err := NewGenerator(cfg).LoadTrials(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Samples, second[i].Samples)
	}
}

func TestGenerator_ShapesAndBlinks(t *testing.T) {
	cfg := DefaultGeneratorConfig(3)
	raw, err := NewGenerator(cfg).LoadTrials(context.Background())
	require.NoError(t, err)

	require.Len(t, raw, cfg.TrialsPerCondition*len(cfg.Conditions))

	blinked := 0
	for _, r := range raw {
		assert.Len(t, r.Samples, cfg.Samples)
		trial := r.ToTrial()
		if trial.HasMissing() {
			blinked++
			for i := cfg.BlinkStart; i < cfg.BlinkStart+cfg.BlinkLength; i++ {
				assert.True(t, signal.IsMissing(trial.Values[i]))
			}
		}
	}
	assert.Equal(t, len(raw)/cfg.BlinkEvery, blinked)
}
