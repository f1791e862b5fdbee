package schema

// TypeCategory classifies how a wire type is encoded inside the payload.
type TypeCategory string

const (
	CategoryUnsignedInt    TypeCategory = "unsigned_int"
	CategorySignedInt      TypeCategory = "signed_int"
	CategoryFloat          TypeCategory = "float"
	CategoryBool           TypeCategory = "bool"
	CategoryString         TypeCategory = "string"
	CategoryCompositeArray TypeCategory = "composite_array"
)

// TypeDescriptor describes a primitive wire type: its registry key, its
// fixed byte width and its encoding category. String types carry width 0;
// their on-wire slot is derived from the protocol limits at layout time.
type TypeDescriptor struct {
	Name     string
	Width    int
	Category TypeCategory
}

// IsVariableWidth reports whether the type's wire width depends on the
// protocol limits rather than the descriptor itself.
func (d TypeDescriptor) IsVariableWidth() bool {
	return d.Category == CategoryString
}

// Builtin type names. These are the only primitive types the generated
// encoders and decoders know how to move across the wire.
const (
	TypeUint8   = "uint8"
	TypeUint16  = "uint16"
	TypeUint32  = "uint32"
	TypeInt8    = "int8"
	TypeInt16   = "int16"
	TypeInt32   = "int32"
	TypeFloat32 = "float32"
	TypeBool    = "bool"
	TypeString  = "string"

	// TypeComposite is a marker used only by composite array fields;
	// it never appears on a primitive field.
	TypeComposite = "composite"
)

// builtinTypes is the fixed primitive set loaded by Registry.LoadBuiltins.
// Order is the registration order, kept stable for listings.
var builtinTypes = []TypeDescriptor{
	{Name: TypeUint8, Width: 1, Category: CategoryUnsignedInt},
	{Name: TypeUint16, Width: 2, Category: CategoryUnsignedInt},
	{Name: TypeUint32, Width: 4, Category: CategoryUnsignedInt},
	{Name: TypeInt8, Width: 1, Category: CategorySignedInt},
	{Name: TypeInt16, Width: 2, Category: CategorySignedInt},
	{Name: TypeInt32, Width: 4, Category: CategorySignedInt},
	{Name: TypeFloat32, Width: 4, Category: CategoryFloat},
	{Name: TypeBool, Width: 1, Category: CategoryBool},
	{Name: TypeString, Width: 0, Category: CategoryString},
	{Name: TypeComposite, Width: 0, Category: CategoryCompositeArray},
}
