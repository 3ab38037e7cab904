package signal

import (
	"github.com/montanaflynn/stats"
)

// TrialSummary holds descriptive statistics of a cleaned trial, attached to
// its quality record for auditing.
type TrialSummary struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes descriptive statistics over a trial's samples. It is
// meant for cleaned trials; missing samples would poison every statistic, so
// callers run it after interpolation.
func Summarize(t Trial) (*TrialSummary, error) {
	data := stats.Float64Data(t.Values)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}

	return &TrialSummary{Mean: mean, Median: median, StdDev: sd, Min: min, Max: max}, nil
}
