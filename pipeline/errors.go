package pipeline

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Pipeline error codes
var (
	// ErrValidationFailed aborts a run whose diagnostic list is non-empty.
	// The diagnostics themselves travel on the Result, not in the error.
	ErrValidationFailed = errors.MustNewCode("pipeline.schema_rejected")

	ErrEmitFailed = errors.MustNewCode("pipeline.emit_failed")
)
