package preprocess

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"gazestats/domain/core"
	"gazestats/domain/signal"
	"gazestats/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// PipelineConfig bundles the per-stage settings plus batch-level policy.
type PipelineConfig struct {
	Detector     DetectorConfig
	Interpolator InterpolatorConfig
	Filter       FilterConfig
	Baseline     BaselineConfig

	// MaxInterpolatedFraction rejects a trial when more than this fraction
	// of its samples had to be reconstructed. 0 disables the limit.
	MaxInterpolatedFraction float64

	// OutlierSD rejects a trial whose cleaned mean deviates more than this
	// many standard deviations from the batch mean. 0 disables the screen.
	OutlierSD float64

	// MaxParallel bounds concurrent trial processing. 0 means GOMAXPROCS.
	MaxParallel int
}

// Validate fails fast on any malformed stage configuration, before a single
// trial is touched.
func (c PipelineConfig) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Interpolator.Validate(); err != nil {
		return err
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if err := c.Baseline.Validate(); err != nil {
		return err
	}
	if c.MaxInterpolatedFraction < 0 || c.MaxInterpolatedFraction > 1 {
		return core.NewConfigError("MaxInterpolatedFraction", "must be in [0,1]")
	}
	if c.OutlierSD < 0 {
		return core.NewConfigError("OutlierSD", "cannot be negative")
	}
	if c.MaxParallel < 0 {
		return core.NewConfigError("MaxParallel", "cannot be negative")
	}
	return nil
}

// Result is the pipeline output: cleaned rectangular matrices per condition
// plus the full audit report. Rejected trials appear only in the report.
type Result struct {
	BatchID  core.BatchID
	Matrices map[core.Condition]*signal.TrialMatrix
	Report   *signal.QualityReport
	Cleaned  []signal.Trial // accepted trials in input order
}

// Pipeline runs detect -> interpolate -> filter/resample -> baseline-correct
// over a batch of trials. Trials are independent and processed in parallel;
// results are committed by input position so repeated runs on the same input
// and configuration are bit-identical.
type Pipeline struct {
	cfg          PipelineConfig
	detector     *Detector
	interpolator *Interpolator
	filter       *Filter
	baseline     *BaselineCorrector
}

// NewPipeline builds the stage chain, failing fast on configuration errors.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	detector, err := NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	interpolator, err := NewInterpolator(cfg.Interpolator)
	if err != nil {
		return nil, err
	}
	filter, err := NewFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	baseline, err := NewBaselineCorrector(cfg.Baseline)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:          cfg,
		detector:     detector,
		interpolator: interpolator,
		filter:       filter,
		baseline:     baseline,
	}, nil
}

// trialOutcome is one trial's slot in the result, committed by input index.
type trialOutcome struct {
	quality signal.TrialQuality
	cleaned signal.Trial
}

// RunFrom pulls trials from a loader port and runs the batch.
func (p *Pipeline) RunFrom(ctx context.Context, loader ports.TrialLoader) (*Result, error) {
	raw, err := loader.LoadTrials(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trials: %w", err)
	}
	trials := make([]signal.Trial, 0, len(raw))
	for _, r := range raw {
		trials = append(trials, r.ToTrial())
	}
	return p.Run(ctx, trials)
}

// Run processes the batch and assembles matrices grouped by condition.
func (p *Pipeline) Run(ctx context.Context, trials []signal.Trial) (*Result, error) {
	outcomes := make([]trialOutcome, len(trials))

	g, gctx := errgroup.WithContext(ctx)
	limit := p.cfg.MaxParallel
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i := range trials {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processTrial(trials[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.screenOutliers(outcomes)

	report := signal.NewQualityReport(core.NewBatchID())
	var accepted []signal.Trial
	for _, o := range outcomes {
		report.Add(o.quality)
		if !o.quality.Rejected {
			accepted = append(accepted, o.cleaned)
		}
	}

	matrices := make(map[core.Condition]*signal.TrialMatrix)
	for _, cond := range conditionOrder(accepted) {
		var group []signal.Trial
		for _, t := range accepted {
			if t.Condition == cond {
				group = append(group, t)
			}
		}
		m, err := signal.NewTrialMatrix(cond, group)
		if err != nil {
			return nil, err
		}
		matrices[cond] = m
	}

	return &Result{
		BatchID:  report.BatchID,
		Matrices: matrices,
		Report:   report,
		Cleaned:  accepted,
	}, nil
}

// processTrial runs the fixed stage order for one trial. A rejection at the
// interpolation stage skips the remaining stages; its intermediate state is
// kept only in the quality record.
func (p *Pipeline) processTrial(trial signal.Trial) trialOutcome {
	spans := p.detector.Detect(trial)
	filled, ires := p.interpolator.Fill(trial, spans)

	quality := signal.TrialQuality{
		TrialID:             trial.ID,
		Condition:           trial.Condition,
		ArtifactSpans:       spans,
		InterpolatedSamples: ires.FilledSamples,
		MaxGap:              ires.MaxGap,
	}
	if trial.Len() > 0 {
		quality.InterpolatedFraction = float64(ires.FilledSamples) / float64(trial.Len())
	}

	if !ires.Interpolable {
		quality.Rejected = true
		quality.Reason = signal.ReasonGapTooLong
		if len(ires.Unfilled) > 0 {
			s := ires.Unfilled[0]
			if s.Start == 0 || s.End == trial.Len() {
				quality.Reason = signal.ReasonOneSidedGap
			}
		}
		return trialOutcome{quality: quality}
	}

	if p.cfg.MaxInterpolatedFraction > 0 && quality.InterpolatedFraction > p.cfg.MaxInterpolatedFraction {
		quality.Rejected = true
		quality.Reason = signal.ReasonTooInterpolated
		return trialOutcome{quality: quality}
	}

	smoothed, err := p.filter.Smooth(filled)
	if err != nil {
		return rejectOutcome(quality, err)
	}
	resampled, err := p.filter.Resample(smoothed)
	if err != nil {
		return rejectOutcome(quality, err)
	}
	corrected, err := p.baseline.Correct(resampled)
	if err != nil {
		return rejectOutcome(quality, err)
	}

	if summary, err := signal.Summarize(corrected); err == nil {
		quality.Summary = summary
	}
	return trialOutcome{quality: quality, cleaned: corrected}
}

// rejectOutcome converts a per-trial stage failure into a local rejection.
// The batch keeps going; only configuration errors abort it.
func rejectOutcome(quality signal.TrialQuality, err error) trialOutcome {
	quality.Rejected = true
	quality.Reason = fmt.Sprintf("%s: %v", signal.ReasonStageError, err)
	return trialOutcome{quality: quality}
}

// screenOutliers marks accepted trials whose mean deviates too far from the
// batch mean. Runs after the parallel phase over stable per-index slots.
func (p *Pipeline) screenOutliers(outcomes []trialOutcome) {
	if p.cfg.OutlierSD == 0 {
		return
	}
	var means []float64
	for _, o := range outcomes {
		if !o.quality.Rejected && o.quality.Summary != nil {
			means = append(means, o.quality.Summary.Mean)
		}
	}
	if len(means) < 3 {
		return
	}
	batchMean, _ := stats.Mean(stats.Float64Data(means))
	sd, _ := stats.StandardDeviationSample(stats.Float64Data(means))
	if sd == 0 {
		return
	}
	for i := range outcomes {
		o := &outcomes[i]
		if o.quality.Rejected || o.quality.Summary == nil {
			continue
		}
		if math.Abs(o.quality.Summary.Mean-batchMean) > p.cfg.OutlierSD*sd {
			o.quality.Rejected = true
			o.quality.Reason = signal.ReasonOutlier
		}
	}
}

// conditionOrder lists conditions in first-appearance order so matrix
// assembly is deterministic.
func conditionOrder(trials []signal.Trial) []core.Condition {
	var order []core.Condition
	seen := make(map[core.Condition]bool)
	for _, t := range trials {
		if !seen[t.Condition] {
			seen[t.Condition] = true
			order = append(order, t.Condition)
		}
	}
	return order
}
