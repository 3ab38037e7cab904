package signal

import (
	"gazestats/domain/core"
)

// Rejection reasons recorded in the quality report.
const (
	ReasonGapTooLong      = "gap exceeds max interpolation length"
	ReasonOneSidedGap     = "artifact span touches trial boundary"
	ReasonTooInterpolated = "interpolated fraction exceeds limit"
	ReasonOutlier         = "trial mean is a batch outlier"
	ReasonStageError      = "stage failure"
)

// TrialQuality records the preprocessing outcome for one trial. A rejected
// trial is excluded from all downstream analysis but stays in the report for
// auditing.
type TrialQuality struct {
	TrialID              core.TrialID
	Condition            core.Condition
	ArtifactSpans        []ArtifactSpan
	InterpolatedSamples  int
	InterpolatedFraction float64
	MaxGap               int
	Rejected             bool
	Reason               string
	Summary              *TrialSummary // nil for rejected trials
}

// QualityReport is the per-batch audit trail produced by the pipeline.
type QualityReport struct {
	BatchID core.BatchID
	Trials  []TrialQuality
}

// NewQualityReport creates an empty report for a batch.
func NewQualityReport(batchID core.BatchID) *QualityReport {
	return &QualityReport{BatchID: batchID}
}

// Add appends one trial's quality record.
func (r *QualityReport) Add(q TrialQuality) {
	r.Trials = append(r.Trials, q)
}

// RejectedCount returns the number of rejected trials.
func (r *QualityReport) RejectedCount() int {
	n := 0
	for _, q := range r.Trials {
		if q.Rejected {
			n++
		}
	}
	return n
}

// Lookup returns the quality record for a trial, if present.
func (r *QualityReport) Lookup(id core.TrialID) (TrialQuality, bool) {
	for _, q := range r.Trials {
		if q.TrialID == id {
			return q, true
		}
	}
	return TrialQuality{}, false
}
