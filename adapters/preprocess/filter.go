package preprocess

import (
	"fmt"
	"math"

	"gazestats/domain/core"
	"gazestats/domain/signal"
)

// FilterConfig holds the smoothing and resampling settings for one batch.
type FilterConfig struct {
	// Window is the moving-average width in samples. Must be odd and >= 1;
	// 1 disables smoothing.
	Window int

	// TargetRate is the sampling rate to resample to, in Hz. 0 disables
	// resampling.
	TargetRate float64
}

// Validate checks the configuration before any trial is filtered.
func (c FilterConfig) Validate() error {
	if c.Window < 1 {
		return core.NewConfigError("Window", "must be at least 1")
	}
	if c.Window%2 == 0 {
		return core.NewConfigError("Window", "must be odd")
	}
	if c.TargetRate < 0 {
		return core.NewConfigError("TargetRate", "cannot be negative")
	}
	return nil
}

// Filter smooths trials with a moving average and optionally resamples them
// to a uniform target rate.
type Filter struct {
	cfg FilterConfig
}

// NewFilter creates a filter, validating its configuration.
func NewFilter(cfg FilterConfig) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Filter{cfg: cfg}, nil
}

// Smooth applies a centered moving average of the configured window. Edge
// samples use a shrinking window instead of synthetic padding, so output
// length equals input length. Missing markers must be interpolated away
// before filtering; any remaining one fails the call.
func (f *Filter) Smooth(trial signal.Trial) (signal.Trial, error) {
	if trial.HasMissing() {
		return signal.Trial{}, core.NewTrialError(trial.ID,
			fmt.Errorf("%w: %d missing samples reached the filter", core.ErrUnpreparedInput, trial.MissingCount()))
	}

	out := trial.Clone()
	if f.cfg.Window == 1 || trial.Len() == 0 {
		return out, nil
	}

	half := f.cfg.Window / 2
	n := trial.Len()
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > n {
			hi = n
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += trial.Values[j]
		}
		out.Values[i] = sum / float64(hi-lo)
	}
	return out, nil
}

// Resample produces a new trial on a uniform grid at the configured target
// rate, with timestamps recomputed. When the source rate is an integer
// multiple of the target the samples are taken by exact stride decimation;
// otherwise values are linearly interpolated at the new grid. A no-op when
// resampling is disabled or the rate already matches.
func (f *Filter) Resample(trial signal.Trial) (signal.Trial, error) {
	if f.cfg.TargetRate == 0 || f.cfg.TargetRate == trial.SampleRate {
		return trial.Clone(), nil
	}
	if trial.SampleRate <= 0 {
		return signal.Trial{}, core.NewTrialError(trial.ID,
			fmt.Errorf("%w: sampling rate unknown, cannot resample", core.ErrUnpreparedInput))
	}
	if trial.HasMissing() {
		return signal.Trial{}, core.NewTrialError(trial.ID,
			fmt.Errorf("%w: missing samples reached the resampler", core.ErrUnpreparedInput))
	}
	if trial.Len() == 0 {
		out := trial.Clone()
		out.SampleRate = f.cfg.TargetRate
		return out, nil
	}

	ratio := trial.SampleRate / f.cfg.TargetRate
	if ratio >= 1 && ratio == math.Trunc(ratio) {
		return f.decimate(trial, int(ratio)), nil
	}
	return f.interpolateGrid(trial), nil
}

// decimate keeps every stride-th sample.
func (f *Filter) decimate(trial signal.Trial, stride int) signal.Trial {
	out := trial
	out.Values = nil
	out.Valid = nil
	out.Timestamps = nil
	for i := 0; i < trial.Len(); i += stride {
		out.Values = append(out.Values, trial.Values[i])
		out.Valid = append(out.Valid, true)
		out.Timestamps = append(out.Timestamps, trial.Timestamps[i])
	}
	out.SampleRate = f.cfg.TargetRate
	out.EventIndex = trial.EventIndex / stride
	return out
}

// interpolateGrid evaluates the trial at a fresh uniform grid by linear
// interpolation between the original timestamps.
func (f *Filter) interpolateGrid(trial signal.Trial) signal.Trial {
	out := trial
	out.Values = nil
	out.Valid = nil
	out.Timestamps = nil

	last := trial.Timestamps[trial.Len()-1]
	step := 1.0 / f.cfg.TargetRate
	src := 0
	for k := 0; ; k++ {
		t := trial.Timestamps[0] + float64(k)*step
		if t > last {
			break
		}
		for src+1 < trial.Len() && trial.Timestamps[src+1] < t {
			src++
		}
		v := trial.Values[src]
		if src+1 < trial.Len() && trial.Timestamps[src+1] > trial.Timestamps[src] {
			frac := (t - trial.Timestamps[src]) / (trial.Timestamps[src+1] - trial.Timestamps[src])
			if frac > 0 {
				v = trial.Values[src] + (trial.Values[src+1]-trial.Values[src])*frac
			}
		}
		out.Values = append(out.Values, v)
		out.Valid = append(out.Valid, true)
		out.Timestamps = append(out.Timestamps, t)
	}
	out.SampleRate = f.cfg.TargetRate
	if trial.SampleRate > 0 {
		out.EventIndex = int(float64(trial.EventIndex) * f.cfg.TargetRate / trial.SampleRate)
	}
	return out
}
