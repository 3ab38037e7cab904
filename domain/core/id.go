package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// TrialID identifies one recorded time series within a batch.
	TrialID ID

	// BatchID identifies one pipeline run over a set of trials.
	BatchID ID

	// Condition is the experimental group label a trial belongs to.
	Condition string
)

// NewBatchID creates a fresh batch identifier.
func NewBatchID() BatchID { return BatchID(NewID()) }

func (id TrialID) String() string { return ID(id).String() }
func (id BatchID) String() string { return ID(id).String() }

func (c Condition) String() string { return string(c) }
