package preprocess

import (
	"context"
	"testing"

	"gazestats/domain/core"
	"gazestats/domain/signal"
	"gazestats/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Detector:                DetectorConfig{MaxJump: 100, ConsecutiveSamples: 1, Padding: 1},
		Interpolator:            InterpolatorConfig{MaxGap: 10, Order: OrderLinear},
		Filter:                  FilterConfig{Window: 3},
		Baseline:                BaselineConfig{Start: 0, End: 10, Mode: ModeSubtractive},
		MaxInterpolatedFraction: 0.5,
	}
}

func loadBatch(t *testing.T, seed int64) []signal.Trial {
	t.Helper()
	gen := testkit.NewGenerator(testkit.GeneratorConfig{
		TrialsPerCondition: 6,
		Samples:            100,
		SampleRate:         100,
		Seed:               seed,
		Conditions:         []core.Condition{"control", "target"},
		BaseLevel:          5,
		NoiseSD:            1,
		BlinkEvery:         3,
		BlinkStart:         30,
		BlinkLength:        8,
	})
	raw, err := gen.LoadTrials(context.Background())
	require.NoError(t, err)
	trials := make([]signal.Trial, 0, len(raw))
	for _, r := range raw {
		trials = append(trials, r.ToTrial())
	}
	return trials
}

func TestPipeline_Idempotence(t *testing.T) {
	p, err := NewPipeline(testPipelineConfig())
	require.NoError(t, err)

	trials := loadBatch(t, 11)
	first, err := p.Run(context.Background(), trials)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), trials)
	require.NoError(t, err)

	require.Equal(t, len(first.Cleaned), len(second.Cleaned))
	for i := range first.Cleaned {
		assert.Equal(t, first.Cleaned[i].Values, second.Cleaned[i].Values, "trial %d", i)
	}
	for cond, m := range first.Matrices {
		assert.Equal(t, m.Data, second.Matrices[cond].Data)
		assert.Equal(t, m.TrialIDs, second.Matrices[cond].TrialIDs)
	}
}

func TestPipeline_RejectedTrialExcludedButReported(t *testing.T) {
	p, err := NewPipeline(testPipelineConfig())
	require.NoError(t, err)

	trials := loadBatch(t, 12)
	// Make one trial unrecoverable: a gap far beyond MaxGap.
	for i := 20; i < 60; i++ {
		trials[0].SetMissing(i)
	}
	badID := trials[0].ID

	res, err := p.Run(context.Background(), trials)
	require.NoError(t, err)

	q, ok := res.Report.Lookup(badID)
	require.True(t, ok, "rejected trial must stay in the report")
	assert.True(t, q.Rejected)

	for _, m := range res.Matrices {
		assert.NotContains(t, m.TrialIDs, badID, "rejected trial must not reach analysis")
	}
	for _, cleaned := range res.Cleaned {
		assert.NotEqual(t, badID, cleaned.ID)
	}
}

func TestPipeline_MaxGapPolicy(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 5
	}
	trial := testkit.MakeTrial("gap", "control", values, 100)
	for i := 10; i < 15; i++ {
		trial.SetMissing(i)
	}

	// With max gap 10 the padded span [9,16) fills entirely.
	cfg := testPipelineConfig()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), []signal.Trial{trial, constantTrial(50, 5.0)})
	require.NoError(t, err)
	q, _ := res.Report.Lookup(trial.ID)
	assert.False(t, q.Rejected)
	assert.Equal(t, 7, q.InterpolatedSamples)

	// With max gap 5 the same trial is rejected.
	cfg.Interpolator.MaxGap = 5
	p, err = NewPipeline(cfg)
	require.NoError(t, err)
	res, err = p.Run(context.Background(), []signal.Trial{trial, constantTrial(50, 5.0)})
	require.NoError(t, err)
	q, _ = res.Report.Lookup(trial.ID)
	assert.True(t, q.Rejected)
	assert.Equal(t, signal.ReasonGapTooLong, q.Reason)
}

func TestPipeline_FailsFastOnBadConfig(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Detector.Padding = -1
	_, err := NewPipeline(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestPipeline_PerTrialFailureIsLocal(t *testing.T) {
	p, err := NewPipeline(testPipelineConfig())
	require.NoError(t, err)

	trials := loadBatch(t, 13)
	// A trial too short for the baseline window fails its own stage only.
	short := testkit.MakeTrial("short", "control", []float64{1, 2, 3}, 100)
	trials = append(trials, short)

	res, err := p.Run(context.Background(), trials)
	require.NoError(t, err, "one bad trial must not abort the batch")

	q, ok := res.Report.Lookup(short.ID)
	require.True(t, ok)
	assert.True(t, q.Rejected)
	assert.Contains(t, q.Reason, signal.ReasonStageError)
}

func TestPipeline_EmptyTrialIsLocalFailure(t *testing.T) {
	cfg := testPipelineConfig()
	// A non-integer rate ratio forces the interpolated-grid resampler.
	cfg.Filter = FilterConfig{Window: 1, TargetRate: 80}
	cfg.Baseline = BaselineConfig{Start: 0, End: 8, Mode: ModeSubtractive}
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	trials := loadBatch(t, 17)
	empty := testkit.MakeTrial("empty", "control", nil, 100)
	trials = append(trials, empty)

	res, err := p.Run(context.Background(), trials)
	require.NoError(t, err, "an empty trial must not abort the batch")

	q, ok := res.Report.Lookup(empty.ID)
	require.True(t, ok)
	assert.True(t, q.Rejected)
	assert.Contains(t, q.Reason, signal.ReasonStageError)
	for _, c := range res.Cleaned {
		assert.NotEqual(t, empty.ID, c.ID)
	}
}

func TestPipeline_QualityFractions(t *testing.T) {
	p, err := NewPipeline(testPipelineConfig())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), loadBatch(t, 14))
	require.NoError(t, err)

	for _, q := range res.Report.Trials {
		assert.GreaterOrEqual(t, q.InterpolatedFraction, 0.0)
		assert.LessOrEqual(t, q.InterpolatedFraction, 1.0)
		if !q.Rejected {
			require.NotNil(t, q.Summary)
		}
	}
}
