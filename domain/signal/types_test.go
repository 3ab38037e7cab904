package signal

import (
	"testing"

	"gazestats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrial_MaskTracksMissing(t *testing.T) {
	values := []float64{1, Missing, 3}
	trial := NewTrial("t1", "control", values, 100)

	assert.Equal(t, []bool{true, false, true}, trial.Valid)
	assert.Equal(t, 1, trial.MissingCount())
	assert.True(t, trial.HasMissing())
	assert.InDelta(t, 0.02, trial.Timestamps[2], 1e-12)
}

func TestTrial_CloneIsIndependent(t *testing.T) {
	trial := NewTrial("t1", "control", []float64{1, 2, 3}, 100)
	clone := trial.Clone()
	clone.Values[0] = 99
	clone.SetMissing(1)

	assert.Equal(t, 1.0, trial.Values[0], "raw trial must not alias the clone")
	assert.True(t, trial.Valid[1])
}

func TestArtifactSpan_Clip(t *testing.T) {
	s := ArtifactSpan{Start: -3, End: 25}.Clip(20)
	assert.Equal(t, ArtifactSpan{Start: 0, End: 20}, s)
}

func TestNewTrialMatrix_RejectsRaggedRows(t *testing.T) {
	trials := []Trial{
		NewTrial("a", "control", []float64{1, 2, 3}, 100),
		NewTrial("b", "control", []float64{1, 2}, 100),
	}
	_, err := NewTrialMatrix("control", trials)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestNewTrialMatrix_RejectsMixedRates(t *testing.T) {
	trials := []Trial{
		NewTrial("a", "control", []float64{1, 2, 3}, 100),
		NewTrial("b", "control", []float64{1, 2, 3}, 50),
	}
	_, err := NewTrialMatrix("control", trials)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestTrialMatrix_Column(t *testing.T) {
	trials := []Trial{
		NewTrial("a", "control", []float64{1, 2}, 100),
		NewTrial("b", "control", []float64{3, 4}, 100),
	}
	m, err := NewTrialMatrix("control", trials)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 4}, m.Column(1))
	assert.Equal(t, 2, m.Trials())
	assert.Equal(t, 2, m.Timepoints())
}

func TestTrialMatrix_CopiesRows(t *testing.T) {
	trial := NewTrial("a", "control", []float64{1, 2}, 100)
	m, err := NewTrialMatrix("control", []Trial{trial, trial})
	require.NoError(t, err)

	m.Data[0][0] = 99
	assert.Equal(t, 1.0, trial.Values[0], "matrix rows must not alias trial data")
}
