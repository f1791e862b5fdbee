package loader

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Loader package error codes
var (
	ErrFileReadFailed     = errors.MustNewCode("loader.file_read_failed")
	ErrParseFailed        = errors.MustNewCode("loader.parse_failed")
	ErrUnsupportedFormat  = errors.MustNewCode("loader.unsupported_format")
	ErrUnknownGroup       = errors.MustNewCode("loader.unknown_group")
	ErrAmbiguousField     = errors.MustNewCode("loader.ambiguous_field")
	ErrInvalidFieldEntry  = errors.MustNewCode("loader.invalid_field_entry")
	ErrInvalidMessage     = errors.MustNewCode("loader.invalid_message")
	ErrNoMessagesDeclared = errors.MustNewCode("loader.no_messages_declared")
)
