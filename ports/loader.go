package ports

import (
	"context"

	"gazestats/domain/core"
	"gazestats/domain/signal"
)

// RawTrial is the numeric contract a loader must satisfy: a fixed-dtype
// sample sequence with an explicit missing-value sentinel, a condition label,
// and optionally a sampling rate and time-locking event index. The core never
// parses raw file formats; adapters behind this port do.
type RawTrial struct {
	ID         core.TrialID
	Condition  core.Condition
	Samples    []float64 // signal.Missing marks invalid samples
	SampleRate float64
	EventIndex int
}

// TrialLoader hands the pipeline clean in-memory sample arrays keyed by
// trial. Implementations own all file-format concerns.
type TrialLoader interface {
	// LoadTrials returns every trial of the recording session, in a stable
	// order so repeated loads feed the pipeline identically.
	LoadTrials(ctx context.Context) ([]RawTrial, error)
}

// ToTrial converts a loader record into a domain trial with its validity mask.
func (r RawTrial) ToTrial() signal.Trial {
	t := signal.NewTrial(r.ID, r.Condition, r.Samples, r.SampleRate)
	t.EventIndex = r.EventIndex
	return t
}
