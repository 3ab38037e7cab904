package errors

import (
	stderrors "errors"
	"fmt"

	"gazestats/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeUnpreparedInput  = "UNPREPARED_INPUT"
	CodeInvalidBaseline  = "INVALID_BASELINE"
	CodeShapeMismatch    = "SHAPE_MISMATCH"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Classify resolves the stable error code for a failure, preserving the
// cause chain. Domain sentinels map to their dedicated codes; anything
// unrecognized is an internal error.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	code := CodeInternalError
	switch {
	case core.IsConfigurationError(err):
		code = CodeConfigInvalid
	case core.IsPreconditionError(err):
		code = CodeUnpreparedInput
		if stderrors.Is(err, core.ErrInvalidBaseline) {
			code = CodeInvalidBaseline
		}
	case core.IsAnalysisInputError(err):
		code = CodeShapeMismatch
		if stderrors.Is(err, core.ErrInsufficientData) {
			code = CodeInsufficientData
		}
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}
