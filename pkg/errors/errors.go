// Unified error handling for the chain printer host
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigType       ErrorCode = "CONFIG_TYPE"

	// Input errors, raised before the first driver call
	ErrInvalidLine       ErrorCode = "INVALID_LINE"
	ErrUnsupportedLength ErrorCode = "UNSUPPORTED_LENGTH"

	// Scheduling errors
	ErrSchedulingStalled ErrorCode = "SCHEDULING_STALLED"

	// Runtime errors
	ErrRuntime      ErrorCode = "RUNTIME"
	ErrDriverIO     ErrorCode = "DRIVER_IO"
	ErrTraceInvalid ErrorCode = "TRACE_INVALID"
)

// HostError is the unified error type for the host system
type HostError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or scheduler name
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *HostError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *HostError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *HostError) SetSection(section string) *HostError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *HostError) SetOption(option string) *HostError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *HostError) SetContext(key string, value interface{}) *HostError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *HostError {
	return &HostError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new HostError
func New(code ErrorCode, message string) *HostError {
	return &HostError{
		Code:    code,
		Message: message,
	}
}

// Config errors

// ConfigSectionError creates an error for missing config section
func ConfigSectionError(section string) *HostError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for missing config option
func ConfigOptionError(section, option string) *HostError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *HostError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *HostError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Input errors

// InvalidLineError reports a symbol outside the binary alphabet at pos.
// pos is -1 for an empty line.
func InvalidLineError(pos int, symbol rune) *HostError {
	if pos < 0 {
		return New(ErrInvalidLine, "line is empty").SetContext("position", pos)
	}
	return New(ErrInvalidLine, fmt.Sprintf("symbol %q at column %d is not '0' or '1'", symbol, pos)).
		SetContext("position", pos).
		SetContext("symbol", string(symbol))
}

// UnsupportedLengthError reports a line length the named scheduler cannot drive.
func UnsupportedLengthError(scheduler string, length int, want string) *HostError {
	return New(ErrUnsupportedLength, fmt.Sprintf("line length %d unsupported, need %s", length, want)).
		SetSection(scheduler).
		SetContext("length", length)
}

// Scheduling errors

// SchedulingStalledError reports a step loop that exceeded its bound with
// columns still waiting.
func SchedulingStalledError(scheduler string, steps, pending int) *HostError {
	return New(ErrSchedulingStalled, fmt.Sprintf("no completion after %d steps, %d columns pending", steps, pending)).
		SetSection(scheduler).
		SetContext("steps", steps).
		SetContext("pending", pending)
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *HostError {
	return New(ErrRuntime, message)
}

// DriverError wraps an I/O failure latched by a hardware driver
func DriverError(driver string, err error) *HostError {
	return Wrap(err, ErrDriverIO, fmt.Sprintf("driver %s: %v", driver, err)).
		SetSection(driver)
}

// TraceError reports a recorded driver trace that breaks the driver contract
func TraceError(event int, reason string) *HostError {
	return New(ErrTraceInvalid, fmt.Sprintf("event %d: %s", event, reason)).
		SetContext("event", event)
}

// Is checks if err, or any error it wraps, carries the given code
func Is(err error, code ErrorCode) bool {
	var hostErr *HostError
	for err != nil {
		if !stderrors.As(err, &hostErr) {
			return false
		}
		if hostErr.Code == code {
			return true
		}
		err = hostErr.Err
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation) ||
		Is(err, ErrConfigType)
}

// IsInput checks if error was raised by input validation, before any
// driver call was made
func IsInput(err error) bool {
	return Is(err, ErrInvalidLine) || Is(err, ErrUnsupportedLength)
}
