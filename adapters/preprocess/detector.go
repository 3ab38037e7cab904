package preprocess

import (
	"math"

	"gazestats/domain/core"
	"gazestats/domain/signal"
)

// DetectorConfig holds the artifact detection thresholds for one batch.
type DetectorConfig struct {
	// MaxJump is the maximum plausible first-difference magnitude between
	// consecutive samples. Larger jumps flag blink onsets and rebounds.
	MaxJump float64

	// ConsecutiveSamples is the number of successive over-threshold
	// differences required before a jump counts as an artifact. 1 flags
	// every jump.
	ConsecutiveSamples int

	// CheckRange enables plausible-value screening against [MinValue, MaxValue].
	CheckRange bool
	MinValue   float64
	MaxValue   float64

	// Padding extends every detected span by this many samples on each side.
	// Samples near an artifact edge are unreliable.
	Padding int
}

// Validate checks the configuration before any trial is scanned.
func (c DetectorConfig) Validate() error {
	if c.MaxJump <= 0 {
		return core.NewConfigError("MaxJump", "must be positive")
	}
	if c.ConsecutiveSamples < 1 {
		return core.NewConfigError("ConsecutiveSamples", "must be at least 1")
	}
	if c.Padding < 0 {
		return core.NewConfigError("Padding", "cannot be negative")
	}
	if c.CheckRange && c.MinValue >= c.MaxValue {
		return core.NewConfigError("MinValue/MaxValue", "range must be non-empty")
	}
	return nil
}

// Detector scans single trials for missing samples, out-of-range values, and
// abrupt jumps, producing ordered non-overlapping artifact spans.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector creates a detector, validating its configuration up front.
func NewDetector(cfg DetectorConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Detect flags every artifact sample in the trial. Spans are expanded by the
// configured padding, clipped to the trial bounds, merged where they touch,
// and returned in ascending start order.
func (d *Detector) Detect(trial signal.Trial) []signal.ArtifactSpan {
	n := trial.Len()
	if n == 0 {
		return nil
	}

	flagged := make([]bool, n)

	// Missing markers and implausible values.
	for i, v := range trial.Values {
		if !trial.Valid[i] || signal.IsMissing(v) {
			flagged[i] = true
			continue
		}
		if d.cfg.CheckRange && (v < d.cfg.MinValue || v > d.cfg.MaxValue) {
			flagged[i] = true
		}
	}

	d.flagVelocity(trial, flagged)

	spans := spansFromMask(flagged)
	if d.cfg.Padding > 0 {
		for i := range spans {
			spans[i].Start -= d.cfg.Padding
			spans[i].End += d.cfg.Padding
			spans[i] = spans[i].Clip(n)
		}
	}
	return mergeTouching(spans)
}

// flagVelocity marks runs of consecutive over-threshold first differences.
// Only differences between two valid samples count; missing samples are
// already flagged.
func (d *Detector) flagVelocity(trial signal.Trial, flagged []bool) {
	run := 0
	for i := 0; i+1 < trial.Len(); i++ {
		if !trial.Valid[i] || !trial.Valid[i+1] {
			run = 0
			continue
		}
		if math.Abs(trial.Values[i+1]-trial.Values[i]) > d.cfg.MaxJump {
			run++
			if run >= d.cfg.ConsecutiveSamples {
				// Flag every sample the qualifying run touches.
				for j := i + 1 - run; j <= i+1; j++ {
					flagged[j] = true
				}
			}
		} else {
			run = 0
		}
	}
}

// spansFromMask collects maximal runs of true into half-open spans.
func spansFromMask(mask []bool) []signal.ArtifactSpan {
	var spans []signal.ArtifactSpan
	start := -1
	for i, m := range mask {
		if m && start < 0 {
			start = i
		}
		if !m && start >= 0 {
			spans = append(spans, signal.ArtifactSpan{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, signal.ArtifactSpan{Start: start, End: len(mask)})
	}
	return spans
}

// mergeTouching collapses overlapping or adjacent spans. Input is already in
// ascending start order because spansFromMask scans left to right.
func mergeTouching(spans []signal.ArtifactSpan) []signal.ArtifactSpan {
	if len(spans) < 2 {
		return spans
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(s) {
			if s.End > last.End {
				last.End = s.End
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}
