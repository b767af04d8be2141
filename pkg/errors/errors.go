// Package errors provides the unified error type and factory functions for the
// hydrogen-bond engine.  The detection core never fails on geometry; AppError
// carries the few caller-visible failures (configuration, presets, input
// parsing) through the application, CLI and HTTP layers so that every surface
// reports them with the same code and message.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout the engine.
// It satisfies the standard error interface and supports errors.Is /
// errors.As / errors.Unwrap across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUnknownPreset, "preset \"fast\" is not registered")
//	return errors.Wrap(err, errors.ErrCodeStructureParse, "failed to read 1EHZ.pdb")
//	return errors.InvalidParameters("min distance exceeds base-base max").
//	           WithDetail("min=3.8 max=3.5")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (file names, offending values).
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is not included in Error() output.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"
// The detail segment is omitted when Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code is
// preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsValidation reports whether err's chain carries a validation-class code:
// bad request, validation, invalid parameters, unknown preset or filter.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidParameters,
		ErrCodeUnknownPreset, ErrCodeUnknownFilter, ErrCodeStructureParse, ErrCodeEmptyStructure:
		return true
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factories
// ─────────────────────────────────────────────────────────────────────────────

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// Internal constructs a CodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Stack: captureStack(1)}
}

// InvalidParameters constructs an ErrCodeInvalidParameters AppError for a
// detection parameter table rejected at load time.
func InvalidParameters(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidParameters, Message: message, Stack: captureStack(1)}
}

// UnknownPreset constructs an ErrCodeUnknownPreset AppError naming the preset.
func UnknownPreset(name string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownPreset,
		Message: fmt.Sprintf("preset %q is not registered", name),
		Stack:   captureStack(1),
	}
}

//Personal.AI order the ending
