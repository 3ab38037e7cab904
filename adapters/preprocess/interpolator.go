package preprocess

import (
	"gazestats/domain/core"
	"gazestats/domain/signal"

	"gonum.org/v1/gonum/interp"
)

// InterpolationOrder selects the reconstruction curve.
type InterpolationOrder string

const (
	// OrderLinear draws a straight line between the span's boundary samples.
	OrderLinear InterpolationOrder = "linear"

	// OrderCubic fits a natural cubic spline through four anchor points, one
	// gap length away on each side of the span. Falls back to linear per
	// span whenever an anchor is out of range or invalid.
	OrderCubic InterpolationOrder = "cubic"
)

// InterpolatorConfig holds the gap-filling policy for one batch.
type InterpolatorConfig struct {
	// MaxGap is the longest span, in samples, the interpolator will fill.
	MaxGap int

	// Order selects linear or cubic reconstruction. Empty means linear.
	Order InterpolationOrder
}

// Validate checks the configuration before any trial is filled.
func (c InterpolatorConfig) Validate() error {
	if c.MaxGap < 1 {
		return core.NewConfigError("MaxGap", "must be at least 1")
	}
	switch c.Order {
	case "", OrderLinear, OrderCubic:
	default:
		return core.NewConfigError("Order", "must be linear or cubic")
	}
	return nil
}

// InterpolationResult reports what the fill pass did to one trial.
type InterpolationResult struct {
	FilledSamples int
	MaxGap        int // longest artifact span seen, filled or not
	Interpolable  bool
	Unfilled      []signal.ArtifactSpan
}

// Interpolator fills artifact spans from their boundary samples.
type Interpolator struct {
	cfg InterpolatorConfig
}

// NewInterpolator creates an interpolator, validating its configuration.
func NewInterpolator(cfg InterpolatorConfig) (*Interpolator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Order == "" {
		cfg.Order = OrderLinear
	}
	return &Interpolator{cfg: cfg}, nil
}

// Fill returns a new trial with each span's samples replaced by interpolated
// values. Samples outside the spans pass through untouched. A span longer
// than MaxGap, or one lacking a valid sample on either side, stays unfilled
// and marks the trial non-interpolable; its samples are blanked to the
// missing sentinel so artifact values never leak downstream.
func (it *Interpolator) Fill(trial signal.Trial, spans []signal.ArtifactSpan) (signal.Trial, InterpolationResult) {
	out := trial.Clone()
	res := InterpolationResult{Interpolable: true}

	for _, span := range spans {
		gap := span.Len()
		if gap > res.MaxGap {
			res.MaxGap = gap
		}

		if gap > it.cfg.MaxGap || span.Start == 0 || span.End == out.Len() {
			res.Interpolable = false
			res.Unfilled = append(res.Unfilled, span)
			for i := span.Start; i < span.End; i++ {
				out.SetMissing(i)
			}
			continue
		}

		it.fillSpan(&out, span)
		res.FilledSamples += gap
	}
	return out, res
}

func (it *Interpolator) fillSpan(out *signal.Trial, span signal.ArtifactSpan) {
	left := span.Start - 1
	right := span.End

	if it.cfg.Order == OrderCubic {
		if it.fillCubic(out, span, left, right) {
			return
		}
	}
	it.fillLinear(out, span, left, right)
}

// fillLinear interpolates between the two boundary samples.
func (it *Interpolator) fillLinear(out *signal.Trial, span signal.ArtifactSpan, left, right int) {
	vl := out.Values[left]
	vr := out.Values[right]
	width := float64(right - left)
	for i := span.Start; i < span.End; i++ {
		frac := float64(i-left) / width
		out.Values[i] = vl + (vr-vl)*frac
		out.Valid[i] = true
	}
}

// fillCubic fits a natural cubic through four anchors spaced one gap length
// around the span. Reports false when an anchor is unusable so the caller
// degrades to linear.
func (it *Interpolator) fillCubic(out *signal.Trial, span signal.ArtifactSpan, left, right int) bool {
	gap := span.Len()
	anchors := []int{left - gap, left, right, right + gap}

	xs := make([]float64, 0, len(anchors))
	ys := make([]float64, 0, len(anchors))
	for _, a := range anchors {
		if a < 0 || a >= out.Len() || !out.Valid[a] {
			return false
		}
		xs = append(xs, float64(a))
		ys = append(ys, out.Values[a])
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return false
	}
	for i := span.Start; i < span.End; i++ {
		out.Values[i] = spline.Predict(float64(i))
		out.Valid[i] = true
	}
	return true
}
