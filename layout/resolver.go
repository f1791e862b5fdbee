// Package layout computes the wire layout of validated messages: exact
// byte offsets and widths for every field inside the SysEx frame. The
// resulting entries are the single source of truth consumed by all code
// emission backends.
package layout

import (
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// FieldLayout is one resolved field: its dot-joined path (array elements
// marked with []), its byte offset from the start of the frame, its wire
// width and its encoding category.
type FieldLayout struct {
	Path     string
	Offset   int
	Width    int
	Category schema.TypeCategory
}

// Entry is the resolved layout of one message. It is derived, read-only
// output; emitters must never recompute offsets themselves.
type Entry struct {
	MessageName string
	Fields      []FieldLayout
	PayloadSize int
	FrameSize   int
}

// Resolve walks the message's fields in declaration order, accumulating a
// running byte offset starting at frame.PayloadOffset. It is pure and
// total: the same validated message and config always produce the
// identical Entry.
//
// Resolve assumes validation already passed. A message that still exceeds
// its limits here indicates a defect in this package or the validator and
// is reported as ErrSizeInvariantViolated.
func Resolve(m *schema.Message, reg *schema.Registry, frame config.Frame, limits config.Limits) (*Entry, error) {
	entry := &Entry{MessageName: m.Name()}

	offset := frame.PayloadOffset
	for _, f := range m.Fields() {
		next, err := resolveField(entry, f, "", offset, reg, limits)
		if err != nil {
			return nil, err
		}
		offset = next
	}

	entry.PayloadSize = offset - frame.PayloadOffset
	entry.FrameSize = frame.PayloadOffset + entry.PayloadSize + 1 // trailing end byte

	if entry.PayloadSize > limits.MaxPayloadSize || entry.FrameSize > limits.MaxMessageSize {
		return nil, errors.Newf(ErrSizeInvariantViolated,
			"message %q resolved to payload %d / frame %d beyond limits (payload %d, message %d); validator and resolver disagree",
			m.Name(), entry.PayloadSize, entry.FrameSize, limits.MaxPayloadSize, limits.MaxMessageSize)
	}
	return entry, nil
}

// resolveField appends the layout of one field and returns the offset
// following it. Composite entries carry their full width; their children
// are resolved against the first array element.
func resolveField(entry *Entry, f schema.Field, base string, offset int, reg *schema.Registry, limits config.Limits) (int, error) {
	path := joinPath(base, f.Name())

	width, err := FieldWidth(f, reg, limits)
	if err != nil {
		return 0, err
	}

	switch field := f.(type) {
	case *schema.PrimitiveField:
		desc, err := reg.Lookup(field.TypeName())
		if err != nil {
			return 0, err
		}
		entry.Fields = append(entry.Fields, FieldLayout{
			Path:     path,
			Offset:   offset,
			Width:    width,
			Category: desc.Category,
		})

	case *schema.CompositeField:
		entry.Fields = append(entry.Fields, FieldLayout{
			Path:     path,
			Offset:   offset,
			Width:    width,
			Category: schema.CategoryCompositeArray,
		})

		childBase := path
		if field.IsArray() {
			childBase += "[]"
		}
		childOffset := offset
		for _, child := range field.Fields() {
			next, err := resolveField(entry, child, childBase, childOffset, reg, limits)
			if err != nil {
				return 0, err
			}
			childOffset = next
		}
	}

	return offset + width, nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
