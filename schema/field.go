package schema

import (
	"fmt"

	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
)

// FieldKind discriminates the two field variants.
type FieldKind string

const (
	KindPrimitive FieldKind = "primitive"
	KindComposite FieldKind = "composite"
)

// Field is a named slot inside a message or composite. Siblings keep their
// declaration order; order determines byte offsets, so it is semantically
// significant. Fields are immutable after construction.
type Field interface {
	// Name returns the field name, unique among its siblings.
	Name() string

	// Kind returns the field variant.
	Kind() FieldKind
}

// PrimitiveField references a registered wire type by name.
type PrimitiveField struct {
	name      string
	typeName  string
	maxLength int // string fields only; 0 means protocol default
}

// NewPrimitive creates a primitive field. Semantic checks (does the type
// exist, does a declared length fit the limits) belong to the validator;
// only shape is checked here.
func NewPrimitive(name, typeName string) (*PrimitiveField, error) {
	if name == "" {
		return nil, errors.New(ErrEmptyFieldName, "primitive field name must not be empty")
	}
	if typeName == "" {
		return nil, errors.Newf(ErrEmptyTypeName, "field %q has no type", name)
	}
	return &PrimitiveField{name: name, typeName: typeName}, nil
}

// NewString creates a string field with an explicit maximum length.
// A maxLength of 0 defers to the protocol default.
func NewString(name string, maxLength int) (*PrimitiveField, error) {
	if maxLength < 0 {
		return nil, errors.Newf(ErrNegativeStringLength, "field %q declares negative max length %d", name, maxLength)
	}
	f, err := NewPrimitive(name, TypeString)
	if err != nil {
		return nil, err
	}
	f.maxLength = maxLength
	return f, nil
}

func (f *PrimitiveField) Name() string    { return f.name }
func (f *PrimitiveField) Kind() FieldKind { return KindPrimitive }

// TypeName returns the referenced registry type name.
func (f *PrimitiveField) TypeName() string { return f.typeName }

// MaxLength returns the declared string length bound, 0 for the default.
func (f *PrimitiveField) MaxLength() int { return f.maxLength }

// CompositeField is a named, ordered group of child fields, optionally
// repeated a fixed number of times. Capacity 0 means a scalar struct.
// Composite shapes may be shared between messages; shape identity is
// pointer identity, which is what cycle detection keys on.
type CompositeField struct {
	name     string
	fields   []Field
	capacity int
}

// NewComposite creates a scalar composite field.
func NewComposite(name string, fields []Field) (*CompositeField, error) {
	if name == "" {
		return nil, errors.New(ErrEmptyFieldName, "composite field name must not be empty")
	}
	return &CompositeField{name: name, fields: fields}, nil
}

// NewCompositeArray creates a composite repeated capacity times.
// Capacity must be in 1..255; whether it fits the protocol's array limit
// is the validator's call.
func NewCompositeArray(name string, fields []Field, capacity int) (*CompositeField, error) {
	if capacity < 1 || capacity > 255 {
		return nil, errors.Newf(ErrInvalidArrayCapacity, "composite %q capacity %d outside 1..255", name, capacity)
	}
	f, err := NewComposite(name, fields)
	if err != nil {
		return nil, err
	}
	f.capacity = capacity
	return f, nil
}

// Attach sets the child fields of a composite created before its children
// were known. Loaders use it to tie recursive group references into the
// field graph; it must be called at most once, before the composite is
// handed to the core, and panics otherwise.
func (f *CompositeField) Attach(fields []Field) {
	if f.fields != nil {
		panic(fmt.Sprintf("schema: Attach on composite %q with fields already set", f.name))
	}
	f.fields = fields
}

func (f *CompositeField) Name() string    { return f.name }
func (f *CompositeField) Kind() FieldKind { return KindComposite }

// Fields returns the child fields in declaration order.
func (f *CompositeField) Fields() []Field { return f.fields }

// ArrayCapacity returns the fixed repeat count, 0 for a scalar struct.
func (f *CompositeField) ArrayCapacity() int { return f.capacity }

// IsArray reports whether the composite is a fixed-size array.
func (f *CompositeField) IsArray() bool { return f.capacity > 0 }
