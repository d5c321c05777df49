package temporal

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes temporal errors.
type ErrorCode string

const (
	// ErrCodeUnknownName indicates a unit or setter name outside the vocabulary.
	ErrCodeUnknownName ErrorCode = "UNKNOWN_TEMPORAL_NAME"

	// ErrCodeUnparsable indicates text the calendar engine cannot read as an instant.
	ErrCodeUnparsable ErrorCode = "UNPARSABLE_TEMPORAL"

	// ErrCodeInvalidZone indicates a zone identifier missing from the zone database.
	ErrCodeInvalidZone ErrorCode = "INVALID_ZONE_IDENTIFIER"
)

// Error is returned for every failure surfaced by this package.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Input is the offending name, text or zone identifier.
	Input string

	// Err is the calendar engine's underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s (input=%q)", e.Code, e.Message, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnknownName reports whether err is an unknown unit/setter name error.
func IsUnknownName(err error) bool {
	return hasCode(err, ErrCodeUnknownName)
}

// IsUnparsable reports whether err is a parse failure.
func IsUnparsable(err error) bool {
	return hasCode(err, ErrCodeUnparsable)
}

// IsInvalidZone reports whether err is an unrecognized zone identifier.
func IsInvalidZone(err error) bool {
	return hasCode(err, ErrCodeInvalidZone)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func unknownNameError(kind, name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownName,
		Message: fmt.Sprintf("not a %s of time", kind),
		Input:   name,
	}
}

func unparsableError(text, zone string, err error) *Error {
	return &Error{
		Code:    ErrCodeUnparsable,
		Message: fmt.Sprintf("cannot parse instant in zone %s", zone),
		Input:   text,
		Err:     err,
	}
}

func invalidZoneError(id string, err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidZone,
		Message: "unknown time zone",
		Input:   id,
		Err:     err,
	}
}
