package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors, caught before any trial is processed
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Stage precondition errors
	ErrUnpreparedInput = errors.New("unprepared input")
	ErrInvalidBaseline = errors.New("invalid baseline window")

	// Analysis input errors
	ErrShapeMismatch    = errors.New("shape mismatch between groups")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context

// NewConfigError reports a malformed configuration field before processing begins.
func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfiguration, field, reason)
}

// NewTrialError attaches the offending trial identifier to a stage error.
func NewTrialError(trialID TrialID, err error) error {
	return fmt.Errorf("trial %s: %w", trialID, err)
}

// NewGroupError attaches the offending condition label to an analysis error.
func NewGroupError(condition Condition, err error) error {
	return fmt.Errorf("group %s: %w", condition, err)
}

// NewShapeError reports mismatched time axes between two groups.
func NewShapeError(a, b Condition, lenA, lenB int) error {
	return fmt.Errorf("%w: %s has %d timepoints, %s has %d", ErrShapeMismatch, a, lenA, b, lenB)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrUnpreparedInput) ||
		errors.Is(err, ErrInvalidBaseline)
}

func IsAnalysisInputError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInsufficientData)
}
