package config

import (
	"testing"

	apperrors "gazestats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Tester.Permutations)
	assert.Equal(t, 0.05, cfg.Tester.PointAlpha)
	assert.Equal(t, 11, cfg.Pipeline.Filter.Window)
	assert.Equal(t, 500, cfg.Pipeline.Interpolator.MaxGap)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PERMUTATIONS", "250")
	t.Setenv("TEST_KIND", "welch")
	t.Setenv("FILTER_WINDOW", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Tester.Permutations)
	assert.Equal(t, "welch", string(cfg.Tester.Test))
	assert.Equal(t, 5, cfg.Pipeline.Filter.Window)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("FILTER_WINDOW", "4")

	_, err := Load()
	require.Error(t, err, "even smoothing window must fail fast")
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}
