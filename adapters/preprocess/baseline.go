package preprocess

import (
	"fmt"

	"gazestats/domain/core"
	"gazestats/domain/signal"

	"github.com/montanaflynn/stats"
)

// CorrectionMode selects how a trial is normalized against its baseline.
type CorrectionMode string

const (
	// ModeSubtractive subtracts the baseline mean from every sample.
	ModeSubtractive CorrectionMode = "subtractive"

	// ModeDivisive divides every sample by the baseline mean.
	ModeDivisive CorrectionMode = "divisive"
)

// BaselineConfig holds the baseline correction settings for one batch.
// Start and End form a half-open window of sample indices relative to the
// trial's time-locking event.
type BaselineConfig struct {
	Start int
	End   int
	Mode  CorrectionMode
}

// Validate checks the configuration before any trial is corrected.
func (c BaselineConfig) Validate() error {
	if c.End <= c.Start {
		return core.NewConfigError("Start/End", "baseline window must be non-empty")
	}
	switch c.Mode {
	case ModeSubtractive, ModeDivisive:
	default:
		return core.NewConfigError("Mode", "must be subtractive or divisive")
	}
	return nil
}

// BaselineCorrector normalizes trials against a pre-event reference window.
type BaselineCorrector struct {
	cfg BaselineConfig
}

// NewBaselineCorrector creates a corrector, validating its configuration.
func NewBaselineCorrector(cfg BaselineConfig) (*BaselineCorrector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BaselineCorrector{cfg: cfg}, nil
}

// Correct returns a new trial normalized against its baseline window mean.
// The window is resolved against the trial's event index and must fall
// entirely inside the trial; in divisive mode a zero mean is an error.
func (b *BaselineCorrector) Correct(trial signal.Trial) (signal.Trial, error) {
	start := trial.EventIndex + b.cfg.Start
	end := trial.EventIndex + b.cfg.End
	if start < 0 || end > trial.Len() || start >= end {
		return signal.Trial{}, core.NewTrialError(trial.ID,
			fmt.Errorf("%w: window [%d,%d) outside trial of length %d", core.ErrInvalidBaseline, start, end, trial.Len()))
	}

	mean, err := stats.Mean(stats.Float64Data(trial.Values[start:end]))
	if err != nil {
		return signal.Trial{}, core.NewTrialError(trial.ID,
			fmt.Errorf("%w: %v", core.ErrInvalidBaseline, err))
	}

	out := trial.Clone()
	switch b.cfg.Mode {
	case ModeDivisive:
		if mean == 0 {
			return signal.Trial{}, core.NewTrialError(trial.ID,
				fmt.Errorf("%w: zero baseline mean in divisive mode", core.ErrInvalidBaseline))
		}
		for i := range out.Values {
			out.Values[i] /= mean
		}
	default:
		for i := range out.Values {
			out.Values[i] -= mean
		}
	}
	return out, nil
}
