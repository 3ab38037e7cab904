package signal

import (
	"fmt"

	"gazestats/domain/core"
)

// TrialMatrix is a rectangular trial-by-time collection for one condition.
// Invariant: every row shares the same time-axis length and sampling rate.
type TrialMatrix struct {
	Condition  core.Condition
	TrialIDs   []core.TrialID
	Data       [][]float64 // rows are trials, columns are timepoints
	SampleRate float64
}

// NewTrialMatrix assembles cleaned trials into a matrix, copying each row.
// All trials must share the same length and sampling rate.
func NewTrialMatrix(condition core.Condition, trials []Trial) (*TrialMatrix, error) {
	if len(trials) == 0 {
		return nil, core.NewGroupError(condition, core.ErrInsufficientData)
	}

	n := trials[0].Len()
	rate := trials[0].SampleRate

	m := &TrialMatrix{
		Condition:  condition,
		TrialIDs:   make([]core.TrialID, 0, len(trials)),
		Data:       make([][]float64, 0, len(trials)),
		SampleRate: rate,
	}
	for _, t := range trials {
		if t.Len() != n {
			return nil, core.NewTrialError(t.ID,
				fmt.Errorf("%w: trial has %d timepoints, matrix has %d", core.ErrShapeMismatch, t.Len(), n))
		}
		if t.SampleRate != rate {
			return nil, core.NewTrialError(t.ID,
				fmt.Errorf("%w: trial sampled at %g Hz, matrix at %g Hz", core.ErrShapeMismatch, t.SampleRate, rate))
		}
		row := append([]float64(nil), t.Values...)
		m.Data = append(m.Data, row)
		m.TrialIDs = append(m.TrialIDs, t.ID)
	}
	return m, nil
}

// Trials returns the number of rows.
func (m *TrialMatrix) Trials() int { return len(m.Data) }

// Timepoints returns the number of columns.
func (m *TrialMatrix) Timepoints() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Column gathers the values of all trials at timepoint j.
func (m *TrialMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Data))
	for i, row := range m.Data {
		col[i] = row[j]
	}
	return col
}
