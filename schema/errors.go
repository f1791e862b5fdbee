package schema

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Schema package error codes
var (
	ErrDuplicateType        = errors.MustNewCode("schema.duplicate_type")
	ErrUnknownType          = errors.MustNewCode("schema.unknown_type")
	ErrBuiltinsReloaded     = errors.MustNewCode("schema.builtins_reloaded")
	ErrEmptyFieldName       = errors.MustNewCode("schema.empty_field_name")
	ErrEmptyTypeName        = errors.MustNewCode("schema.empty_type_name")
	ErrInvalidArrayCapacity = errors.MustNewCode("schema.invalid_array_capacity")
	ErrNegativeStringLength = errors.MustNewCode("schema.negative_string_length")
	ErrEmptyMessageName     = errors.MustNewCode("schema.empty_message_name")
	ErrInvalidFlow          = errors.MustNewCode("schema.invalid_flow")
)
