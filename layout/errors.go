package layout

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Layout package error codes
var (
	// ErrCyclicShape marks a composite whose shape graph revisits itself.
	// Width computation refuses such fields instead of recursing forever.
	ErrCyclicShape = errors.MustNewCode("layout.cyclic_shape")

	// ErrSizeInvariantViolated means a validated message still resolved to
	// a layout beyond its limits. That is a core defect (validator and
	// resolver disagree), never a user error, and must not be truncated.
	ErrSizeInvariantViolated = errors.MustNewCode("layout.size_invariant_violated")
)
