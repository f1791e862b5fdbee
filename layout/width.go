package layout

import (
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// FieldWidth returns the static wire width of a field in bytes. It is the
// single width oracle: the validator's size rule and the layout resolver
// both call it, so the two can never disagree on a message's size.
//
// String fields occupy a fixed slot of one length-prefix byte plus the
// maximum string length, so layout stays computable without sample data.
// Composite widths are capacity times the sum of child widths, computed
// with a visited set on shape identity so cyclic shapes return an error
// instead of overflowing the stack.
func FieldWidth(f schema.Field, reg *schema.Registry, limits config.Limits) (int, error) {
	return fieldWidth(f, reg, limits, make(map[*schema.CompositeField]bool))
}

func fieldWidth(f schema.Field, reg *schema.Registry, limits config.Limits, visiting map[*schema.CompositeField]bool) (int, error) {
	switch field := f.(type) {
	case *schema.PrimitiveField:
		desc, err := reg.Lookup(field.TypeName())
		if err != nil {
			return 0, err
		}
		if desc.Category == schema.CategoryString {
			return stringSlotWidth(field, limits), nil
		}
		return desc.Width, nil

	case *schema.CompositeField:
		if visiting[field] {
			return 0, errors.Newf(ErrCyclicShape, "composite %q contains its own shape", field.Name())
		}
		visiting[field] = true
		defer delete(visiting, field)

		elem := 0
		for _, child := range field.Fields() {
			w, err := fieldWidth(child, reg, limits, visiting)
			if err != nil {
				return 0, err
			}
			elem += w
		}
		if field.IsArray() {
			return field.ArrayCapacity() * elem, nil
		}
		return elem, nil

	default:
		return 0, errors.Newf(errors.CommonInternal, "unknown field kind %T", f)
	}
}

// MessageWidth returns the payload width of a message: the sum of its
// top-level field widths.
func MessageWidth(m *schema.Message, reg *schema.Registry, limits config.Limits) (int, error) {
	total := 0
	for _, f := range m.Fields() {
		w, err := FieldWidth(f, reg, limits)
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// stringSlotWidth is the fixed on-wire slot of a string field: one length
// byte plus the declared or default maximum length.
func stringSlotWidth(f *schema.PrimitiveField, limits config.Limits) int {
	max := f.MaxLength()
	if max == 0 {
		max = limits.StringMaxLength
	}
	return 1 + max
}
