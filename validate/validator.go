// Package validate checks a message set against the structural and
// semantic rules of the protocol. Validation is a single batch pass that
// collects every violation instead of stopping at the first; an empty
// result means the set is eligible for ID allocation.
package validate

import (
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Validator holds the frozen inputs every rule is checked against.
type Validator struct {
	registry *schema.Registry
	frame    config.Frame
	limits   config.Limits
}

// New creates a validator for a sealed registry and a validated config.
func New(registry *schema.Registry, frame config.Frame, limits config.Limits) *Validator {
	return &Validator{registry: registry, frame: frame, limits: limits}
}

// Validate runs every rule over the message set and returns the flat
// diagnostic list. Rules are independent and order-insensitive; no rule
// short-circuits another.
func (v *Validator) Validate(messages []*schema.Message) []Diagnostic {
	var diags []Diagnostic

	seen := make(map[string]bool, len(messages))
	for _, m := range messages {
		if seen[m.Name()] {
			diags = append(diags, Diagnostic{
				Rule:    DuplicateMessageName,
				Message: m.Name(),
				Detail:  "message name declared more than once",
			})
		}
		seen[m.Name()] = true
	}

	for _, m := range messages {
		diags = v.checkFields(diags, m.Name(), "", m.Fields(), make(map[*schema.CompositeField]bool))
		diags = v.checkSize(diags, m)
	}

	return diags
}

// checkFields walks one sibling list, checking per-field rules and
// recursing into composites. The visiting set carries the composite
// shapes on the current path; revisiting one is a cyclic reference and
// stops the descent, which bounds traversal on malicious input.
func (v *Validator) checkFields(diags []Diagnostic, msg, base string, fields []schema.Field, visiting map[*schema.CompositeField]bool) []Diagnostic {
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		path := joinPath(base, f.Name())

		if names[f.Name()] {
			diags = append(diags, Diagnostic{
				Rule:    DuplicateFieldName,
				Message: msg,
				Path:    path,
				Detail:  "sibling field name declared more than once",
			})
		}
		names[f.Name()] = true

		switch field := f.(type) {
		case *schema.PrimitiveField:
			diags = v.checkPrimitive(diags, msg, path, field)

		case *schema.CompositeField:
			if field.IsArray() && field.ArrayCapacity() > v.limits.ArrayMaxItems {
				diags = append(diags, Diagnostic{
					Rule:    ArrayCapacityExceeded,
					Message: msg,
					Path:    path,
					Detail:  detailf("array capacity %d exceeds limit %d", field.ArrayCapacity(), v.limits.ArrayMaxItems),
				})
			}

			if visiting[field] {
				diags = append(diags, Diagnostic{
					Rule:    CyclicCompositeReference,
					Message: msg,
					Path:    path,
					Detail:  detailf("composite %q transitively contains its own shape", field.Name()),
				})
				continue
			}
			visiting[field] = true
			diags = v.checkFields(diags, msg, path, field.Fields(), visiting)
			delete(visiting, field)
		}
	}
	return diags
}

func (v *Validator) checkPrimitive(diags []Diagnostic, msg, path string, field *schema.PrimitiveField) []Diagnostic {
	desc, err := v.registry.Lookup(field.TypeName())
	if err != nil {
		return append(diags, Diagnostic{
			Rule:    UnknownType,
			Message: msg,
			Path:    path,
			Detail:  detailf("type %q not in registry", field.TypeName()),
		})
	}

	if desc.Category == schema.CategoryString && field.MaxLength() > v.limits.StringMaxLength {
		diags = append(diags, Diagnostic{
			Rule:    StringLengthExceeded,
			Message: msg,
			Path:    path,
			Detail:  detailf("declared max length %d exceeds limit %d", field.MaxLength(), v.limits.StringMaxLength),
		})
	}
	return diags
}

// checkSize computes the message's payload width bottom-up and compares it
// against both size ceilings. Messages whose width is not computable
// (unknown types, cyclic shapes) are skipped; those defects already
// produced their own diagnostics.
func (v *Validator) checkSize(diags []Diagnostic, m *schema.Message) []Diagnostic {
	payload, err := layout.MessageWidth(m, v.registry, v.limits)
	if err != nil {
		if errors.HasCode(err, schema.ErrUnknownType) || errors.HasCode(err, layout.ErrCyclicShape) {
			return diags
		}
		return append(diags, Diagnostic{
			Rule:    MessageSizeExceeded,
			Message: m.Name(),
			Detail:  detailf("width computation failed: %v", err),
		})
	}

	frameSize := v.frame.PayloadOffset + payload + 1
	if payload > v.limits.MaxPayloadSize {
		diags = append(diags, Diagnostic{
			Rule:    MessageSizeExceeded,
			Message: m.Name(),
			Detail:  detailf("payload %d bytes exceeds max_payload_size %d", payload, v.limits.MaxPayloadSize),
		})
	}
	if frameSize > v.limits.MaxMessageSize {
		diags = append(diags, Diagnostic{
			Rule:    MessageSizeExceeded,
			Message: m.Name(),
			Detail:  detailf("frame %d bytes exceeds max_message_size %d", frameSize, v.limits.MaxMessageSize),
		})
	}
	return diags
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
