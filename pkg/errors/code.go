package errors

import (
	"fmt"
	"regexp"
	"strings"
)

// Code is a validated, package-prefixed error code of the form "package.name".
// Codes are declared once per package in an errors.go file and compared by
// value, so callers can branch on failure kinds without string matching.
type Code struct {
	value string
}

// Common codes shared across packages.
var (
	CommonInternal     = MustNewCode("common.internal")
	CommonNotFound     = MustNewCode("common.not_found")
	CommonValidation   = MustNewCode("common.validation")
	CommonConflict     = MustNewCode("common.conflict")
	CommonUnsupported  = MustNewCode("common.unsupported")
	CommonInvalidInput = MustNewCode("common.invalid_input")
)

var codeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+$`)

// NewCode creates a validated Code.
func NewCode(s string) (Code, error) {
	if !codeRegex.MatchString(s) {
		return Code{}, fmt.Errorf("invalid code format %q: must be 'package.name' (lowercase, underscores, dots only)", s)
	}
	return Code{value: s}, nil
}

// MustNewCode creates a Code or panics. Intended for package-level var blocks.
func MustNewCode(s string) Code {
	code, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return code
}

// String returns the full code string.
func (c Code) String() string {
	return c.value
}

// Package returns the package prefix of the code.
func (c Code) Package() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[:idx]
	}
	return ""
}

// Name returns the part after the package prefix.
func (c Code) Name() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[idx+1:]
	}
	return c.value
}

// IsZero reports whether the code was never assigned.
func (c Code) IsZero() bool {
	return c.value == ""
}

// Equals reports whether two codes are the same.
func (c Code) Equals(other Code) bool {
	return c.value == other.value
}
