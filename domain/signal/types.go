package signal

import (
	"math"

	"gazestats/domain/core"
)

// Missing is the sentinel value marking an invalid sample. A parallel
// validity mask is kept on every Trial so missing data is explicit at each
// stage boundary and never silently coerced to zero.
var Missing = math.NaN()

// IsMissing reports whether a sample value is the missing sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Trial is one recorded time series belonging to one condition. A Trial owns
// its backing slices; pipeline stages return fresh Trials and never alias the
// input data.
type Trial struct {
	ID         core.TrialID
	Condition  core.Condition
	Values     []float64
	Valid      []bool // parallel validity mask, false where Values is Missing
	SampleRate float64
	Timestamps []float64 // seconds, same length as Values

	// EventIndex is the sample index of the time-locking event, when the
	// loader provides one. Baseline windows are expressed relative to it.
	EventIndex int
}

// NewTrial builds a trial from raw sample values, deriving the validity mask
// and a uniform timestamp grid from the sampling rate.
func NewTrial(id core.TrialID, condition core.Condition, values []float64, sampleRate float64) Trial {
	t := Trial{
		ID:         id,
		Condition:  condition,
		Values:     make([]float64, len(values)),
		Valid:      make([]bool, len(values)),
		SampleRate: sampleRate,
		Timestamps: make([]float64, len(values)),
	}
	copy(t.Values, values)
	for i, v := range values {
		t.Valid[i] = !IsMissing(v)
		if sampleRate > 0 {
			t.Timestamps[i] = float64(i) / sampleRate
		}
	}
	return t
}

// Len returns the number of samples in the trial.
func (t Trial) Len() int { return len(t.Values) }

// Clone returns a deep copy with independent backing slices.
func (t Trial) Clone() Trial {
	out := t
	out.Values = append([]float64(nil), t.Values...)
	out.Valid = append([]bool(nil), t.Valid...)
	out.Timestamps = append([]float64(nil), t.Timestamps...)
	return out
}

// SetMissing marks sample i as missing in both the values and the mask.
func (t *Trial) SetMissing(i int) {
	t.Values[i] = Missing
	t.Valid[i] = false
}

// MissingCount returns the number of samples flagged invalid.
func (t Trial) MissingCount() int {
	n := 0
	for _, ok := range t.Valid {
		if !ok {
			n++
		}
	}
	return n
}

// HasMissing reports whether any sample is flagged invalid.
func (t Trial) HasMissing() bool {
	for _, ok := range t.Valid {
		if !ok {
			return true
		}
	}
	return false
}

// ArtifactSpan is a half-open index interval [Start, End) flagging an
// artifact region within a trial. Spans within one trial never overlap and
// are kept in ascending start order.
type ArtifactSpan struct {
	Start int
	End   int
}

// Len returns the number of samples covered by the span.
func (s ArtifactSpan) Len() int { return s.End - s.Start }

// Contains reports whether index i falls inside the span.
func (s ArtifactSpan) Contains(i int) bool { return i >= s.Start && i < s.End }

// Clip bounds the span to [0, n), never extending past the trial edges.
func (s ArtifactSpan) Clip(n int) ArtifactSpan {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End > n {
		s.End = n
	}
	return s
}

// Touches reports whether two spans overlap or are directly adjacent.
func (s ArtifactSpan) Touches(other ArtifactSpan) bool {
	return s.Start <= other.End && other.Start <= s.End
}
