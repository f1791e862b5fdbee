package allocate

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Allocator error codes
var (
	ErrIDSpaceExhausted = errors.MustNewCode("allocate.id_space_exhausted")
)
