package errors

import (
	"fmt"
)

// Error carries a Code, a human-readable message, an optional cause and
// free-form string context. The code is compulsory: every failure produced
// by this module names the rule or condition it violated.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]string
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an Error around a cause.
func Wrap(code Code, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf creates an Error around a cause with a formatted message.
func Wrapf(code Code, err error, format string, args ...interface{}) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// AddContext attaches a key/value pair and returns the error for chaining.
func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AsError extracts the nearest *Error in the chain, or wraps a foreign
// error as a generic internal one so callers always get a coded error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	for walk := err; walk != nil; {
		if e, ok := walk.(*Error); ok {
			return e
		}
		u, ok := walk.(interface{ Unwrap() error })
		if !ok {
			break
		}
		walk = u.Unwrap()
	}
	return Wrap(CommonInternal, err, err.Error())
}

// HasCode reports whether err is an *Error carrying the given code,
// unwrapping as needed.
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code.Equals(code) {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
