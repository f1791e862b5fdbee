package config

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Config package error codes
var (
	ErrFileReadFailed   = errors.MustNewCode("config.file_read_failed")
	ErrFileParseFailed  = errors.MustNewCode("config.file_parse_failed")
	ErrFileWriteFailed  = errors.MustNewCode("config.file_write_failed")
	ErrInvalidFrame     = errors.MustNewCode("config.invalid_frame")
	ErrInvalidLimits    = errors.MustNewCode("config.invalid_limits")
	ErrValidationFailed = errors.MustNewCode("config.validation_failed")
)
