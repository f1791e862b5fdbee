// Package gencpp renders the C++ backend: protocol constants, the message
// ID enum, byte-level encode/decode helpers and one struct header per
// message. All offsets and sizes come from the layout IR.
package gencpp

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/petitechose-audio/protocol-codegen/gen"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Emitter is the C++ code emission backend.
type Emitter struct{}

func New() *Emitter { return &Emitter{} }

func (e *Emitter) Target() string { return "cpp" }

func (e *Emitter) Emit(ctx *gen.Context) ([]gen.File, error) {
	files := []gen.File{
		{Path: "ProtocolConstants.hpp", Content: []byte(constantsHpp(ctx))},
		{Path: "MessageID.hpp", Content: []byte(messageIDHpp(ctx))},
		{Path: "Codec.hpp", Content: []byte(codecHpp(ctx))},
	}
	for _, m := range ctx.Messages {
		content, err := structHpp(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "emit struct for message %s", m.Name())
		}
		files = append(files, gen.File{
			Path:    "struct/" + gen.PascalCase(m.Name()) + "Message.hpp",
			Content: []byte(content),
		})
	}
	return files, nil
}

func header(ns string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n\n#pragma once\n\n#include <cstdint>\n#include <cstddef>\n\nnamespace %s {\n\n", gen.Header, ns)
	return b.String()
}

func footer(ns string) string {
	return fmt.Sprintf("\n}  // namespace %s\n", ns)
}

func constantsHpp(ctx *gen.Context) string {
	ns := ctx.Config.Output.Cpp.Namespace
	f := ctx.Config.Frame
	l := ctx.Config.Limits

	var b strings.Builder
	b.WriteString(header(ns))
	b.WriteString("// SysEx framing\n")
	fmt.Fprintf(&b, "constexpr uint8_t kSysExStart = 0x%02X;\n", f.Start)
	fmt.Fprintf(&b, "constexpr uint8_t kSysExEnd = 0x%02X;\n", f.End)
	fmt.Fprintf(&b, "constexpr uint8_t kManufacturerId = 0x%02X;\n", f.ManufacturerID)
	fmt.Fprintf(&b, "constexpr uint8_t kDeviceId = 0x%02X;\n\n", f.DeviceID)
	b.WriteString("// Frame structure\n")
	fmt.Fprintf(&b, "constexpr size_t kMinMessageLength = %d;\n", f.MinMessageLength)
	fmt.Fprintf(&b, "constexpr size_t kMessageTypeOffset = %d;\n", f.MessageTypeOffset)
	fmt.Fprintf(&b, "constexpr size_t kFromHostOffset = %d;\n", f.FromHostOffset)
	fmt.Fprintf(&b, "constexpr size_t kPayloadOffset = %d;\n\n", f.PayloadOffset)
	b.WriteString("// Encoding limits\n")
	fmt.Fprintf(&b, "constexpr size_t kStringMaxLength = %d;\n", l.StringMaxLength)
	fmt.Fprintf(&b, "constexpr size_t kArrayMaxItems = %d;\n", l.ArrayMaxItems)
	fmt.Fprintf(&b, "constexpr size_t kMaxPayloadSize = %d;\n", l.MaxPayloadSize)
	fmt.Fprintf(&b, "constexpr size_t kMaxMessageSize = %d;\n", l.MaxMessageSize)
	b.WriteString(footer(ns))
	return b.String()
}

func messageIDHpp(ctx *gen.Context) string {
	ns := ctx.Config.Output.Cpp.Namespace

	var b strings.Builder
	b.WriteString(header(ns))
	b.WriteString("enum class MessageID : uint8_t {\n")
	for _, m := range ctx.MessagesByID() {
		fmt.Fprintf(&b, "    k%s = 0x%02X,\n", gen.PascalCase(m.Name()), ctx.Allocation[m.Name()])
	}
	b.WriteString("};\n")
	b.WriteString(footer(ns))
	return b.String()
}

// codecHpp renders the byte-level helpers shared by every struct header.
// Every payload byte is masked to the 7-bit range the SysEx envelope
// requires; multi-byte values are big-endian, 7 bits per wire byte.
func codecHpp(ctx *gen.Context) string {
	ns := ctx.Config.Output.Cpp.Namespace

	var b strings.Builder
	b.WriteString(header(ns))
	b.WriteString(`namespace codec {

inline void writeU8(uint8_t* frame, size_t off, uint8_t v) {
    frame[off] = v & 0x7F;
}

inline void writeU16(uint8_t* frame, size_t off, uint16_t v) {
    frame[off] = (v >> 8) & 0x7F;
    frame[off + 1] = v & 0x7F;
}

inline void writeU32(uint8_t* frame, size_t off, uint32_t v) {
    frame[off] = (v >> 24) & 0x7F;
    frame[off + 1] = (v >> 16) & 0x7F;
    frame[off + 2] = (v >> 8) & 0x7F;
    frame[off + 3] = v & 0x7F;
}

inline void writeF32(uint8_t* frame, size_t off, float v) {
    uint32_t bits;
    __builtin_memcpy(&bits, &v, sizeof bits);
    writeU32(frame, off, bits);
}

inline void writeBool(uint8_t* frame, size_t off, bool v) {
    frame[off] = v ? 0x01 : 0x00;
}

inline void writeString(uint8_t* frame, size_t off, const char* s, size_t maxLen) {
    size_t n = 0;
    while (n < maxLen && s[n] != '\0') { ++n; }
    frame[off] = static_cast<uint8_t>(n) & 0x7F;
    for (size_t i = 0; i < n; ++i) { frame[off + 1 + i] = static_cast<uint8_t>(s[i]) & 0x7F; }
    for (size_t i = n; i < maxLen; ++i) { frame[off + 1 + i] = 0x00; }
}

inline uint8_t readU8(const uint8_t* frame, size_t off) {
    return frame[off] & 0x7F;
}

inline uint16_t readU16(const uint8_t* frame, size_t off) {
    return static_cast<uint16_t>((frame[off] & 0x7F) << 8) | (frame[off + 1] & 0x7F);
}

inline uint32_t readU32(const uint8_t* frame, size_t off) {
    return (static_cast<uint32_t>(frame[off] & 0x7F) << 24) |
           (static_cast<uint32_t>(frame[off + 1] & 0x7F) << 16) |
           (static_cast<uint32_t>(frame[off + 2] & 0x7F) << 8) |
           static_cast<uint32_t>(frame[off + 3] & 0x7F);
}

inline float readF32(const uint8_t* frame, size_t off) {
    uint32_t bits = readU32(frame, off);
    float v;
    __builtin_memcpy(&v, &bits, sizeof v);
    return v;
}

inline bool readBool(const uint8_t* frame, size_t off) {
    return frame[off] != 0x00;
}

inline void readString(const uint8_t* frame, size_t off, char* out, size_t maxLen) {
    size_t n = frame[off] & 0x7F;
    if (n > maxLen) { n = maxLen; }
    for (size_t i = 0; i < n; ++i) { out[i] = static_cast<char>(frame[off + 1 + i]); }
    out[n] = '\0';
}

}  // namespace codec
`)
	b.WriteString(footer(ns))
	return b.String()
}

func structHpp(ctx *gen.Context, m *schema.Message) (string, error) {
	ns := ctx.Config.Output.Cpp.Namespace
	entry := ctx.Layout(m.Name())
	if entry == nil {
		return "", errors.Errorf("no layout entry for message %s", m.Name())
	}
	structName := gen.PascalCase(m.Name()) + "Message"

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", gen.Header)
	if m.Description() != "" {
		fmt.Fprintf(&b, "// %s\n", m.Description())
	}
	fmt.Fprintf(&b, "\n#pragma once\n\n#include <cstdint>\n#include <cstddef>\n\n#include \"../Codec.hpp\"\n#include \"../MessageID.hpp\"\n#include \"../ProtocolConstants.hpp\"\n\nnamespace %s {\n\n", ns)

	fmt.Fprintf(&b, "struct %s {\n", structName)
	fmt.Fprintf(&b, "    static constexpr MessageID kId = MessageID::k%s;\n", gen.PascalCase(m.Name()))
	fmt.Fprintf(&b, "    static constexpr size_t kPayloadSize = %d;\n", entry.PayloadSize)
	fmt.Fprintf(&b, "    static constexpr size_t kFrameSize = %d;\n\n", entry.FrameSize)

	w := &structWriter{ctx: ctx, b: &b, lays: indexLayout(entry)}
	for _, f := range m.Fields() {
		if err := w.member(f, "    "); err != nil {
			return "", err
		}
	}

	b.WriteString("\n    // Writes the full frame, including envelope bytes, into frame[kFrameSize].\n")
	b.WriteString("    void encode(uint8_t* frame, bool fromHost) const {\n")
	fmt.Fprintf(&b, "        frame[0] = kSysExStart;\n")
	fmt.Fprintf(&b, "        frame[1] = kManufacturerId;\n")
	fmt.Fprintf(&b, "        frame[2] = kDeviceId;\n")
	fmt.Fprintf(&b, "        frame[kMessageTypeOffset] = static_cast<uint8_t>(kId);\n")
	fmt.Fprintf(&b, "        frame[kFromHostOffset] = fromHost ? 0x01 : 0x00;\n")
	for _, f := range m.Fields() {
		if err := w.codecField(f, "this->", f.Name(), "        ", nil, true); err != nil {
			return "", err
		}
	}
	fmt.Fprintf(&b, "        frame[kFrameSize - 1] = kSysExEnd;\n")
	b.WriteString("    }\n\n")

	b.WriteString("    void decode(const uint8_t* frame) {\n")
	for _, f := range m.Fields() {
		if err := w.codecField(f, "this->", f.Name(), "        ", nil, false); err != nil {
			return "", err
		}
	}
	b.WriteString("    }\n")

	b.WriteString("};\n")
	b.WriteString(footer(ns))
	return b.String(), nil
}

// structWriter renders member declarations and per-field codec calls from
// the schema shape plus the flat layout IR.
type structWriter struct {
	ctx  *gen.Context
	b    *strings.Builder
	lays map[string]layout.FieldLayout
}

// indexLayout keys a message's flat layout entries by field path.
func indexLayout(entry *layout.Entry) map[string]layout.FieldLayout {
	idx := make(map[string]layout.FieldLayout, len(entry.Fields))
	for _, fl := range entry.Fields {
		idx[fl.Path] = fl
	}
	return idx
}

func (w *structWriter) member(f schema.Field, indent string) error {
	switch field := f.(type) {
	case *schema.PrimitiveField:
		desc, err := w.ctx.Registry.Lookup(field.TypeName())
		if err != nil {
			return err
		}
		if desc.Category == schema.CategoryString {
			fmt.Fprintf(w.b, "%schar %s[%d];\n", indent, field.Name(), w.stringMax(field)+1)
			return nil
		}
		fmt.Fprintf(w.b, "%s%s %s;\n", indent, cppType(field.TypeName()), field.Name())
		return nil

	case *schema.CompositeField:
		typeName := gen.PascalCase(field.Name())
		fmt.Fprintf(w.b, "%sstruct %s {\n", indent, typeName)
		for _, child := range field.Fields() {
			if err := w.member(child, indent+"    "); err != nil {
				return err
			}
		}
		if field.IsArray() {
			fmt.Fprintf(w.b, "%s} %s[%d];\n", indent, field.Name(), field.ArrayCapacity())
		} else {
			fmt.Fprintf(w.b, "%s} %s;\n", indent, field.Name())
		}
		return nil
	}
	return errors.Errorf("unknown field kind %T", f)
}

// codecField renders the codec read or write calls for one field. Each
// enclosing array contributes a loop; a field's byte offset is the IR
// offset of the first element plus every loop variable times its stride.
func (w *structWriter) codecField(f schema.Field, memberBase, irPath, indent string, loops []loopCtx, encode bool) error {
	lay := w.layoutOf(irPath)
	if lay == nil {
		return errors.Errorf("layout IR has no entry for path %s", irPath)
	}
	member := memberBase + f.Name()

	switch field := f.(type) {
	case *schema.PrimitiveField:
		desc, err := w.ctx.Registry.Lookup(field.TypeName())
		if err != nil {
			return err
		}
		offset := offsetExpr(lay.Offset, loops)
		if desc.Category == schema.CategoryString {
			if encode {
				fmt.Fprintf(w.b, "%scodec::writeString(frame, %s, %s, %d);\n", indent, offset, member, w.stringMax(field))
			} else {
				fmt.Fprintf(w.b, "%scodec::readString(frame, %s, %s, %d);\n", indent, offset, member, w.stringMax(field))
			}
			return nil
		}
		fn := codecFn(field.TypeName())
		if encode {
			fmt.Fprintf(w.b, "%scodec::write%s(frame, %s, %s);\n", indent, fn, offset, castFor(field.TypeName(), member))
		} else {
			fmt.Fprintf(w.b, "%s%s = %s;\n", indent, member, castBack(field.TypeName(), fmt.Sprintf("codec::read%s(frame, %s)", fn, offset)))
		}
		return nil

	case *schema.CompositeField:
		if field.IsArray() {
			stride := lay.Width / field.ArrayCapacity()
			loopVar := fmt.Sprintf("i%d", len(loops))
			fmt.Fprintf(w.b, "%sfor (size_t %s = 0; %s < %d; ++%s) {\n", indent, loopVar, loopVar, field.ArrayCapacity(), loopVar)
			childLoops := append(append([]loopCtx{}, loops...), loopCtx{v: loopVar, stride: stride})
			childBase := fmt.Sprintf("%s[%s].", member, loopVar)
			for _, child := range field.Fields() {
				if err := w.codecField(child, childBase, irPath+"[]."+child.Name(), indent+"    ", childLoops, encode); err != nil {
					return err
				}
			}
			fmt.Fprintf(w.b, "%s}\n", indent)
			return nil
		}
		for _, child := range field.Fields() {
			if err := w.codecField(child, member+".", irPath+"."+child.Name(), indent, loops, encode); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("unknown field kind %T", f)
}

type loopCtx struct {
	v      string
	stride int
}

// offsetExpr renders a byte offset expression from the IR offset of the
// first element and the enclosing loops.
func offsetExpr(offset int, loops []loopCtx) string {
	expr := fmt.Sprintf("%d", offset)
	for _, l := range loops {
		expr += fmt.Sprintf(" + %s * %d", l.v, l.stride)
	}
	return expr
}

func (w *structWriter) layoutOf(path string) *layout.FieldLayout {
	if fl, ok := w.lays[path]; ok {
		return &fl
	}
	return nil
}

func (w *structWriter) stringMax(f *schema.PrimitiveField) int {
	if f.MaxLength() > 0 {
		return f.MaxLength()
	}
	return w.ctx.Config.Limits.StringMaxLength
}

func cppType(typeName string) string {
	switch typeName {
	case schema.TypeUint8:
		return "uint8_t"
	case schema.TypeUint16:
		return "uint16_t"
	case schema.TypeUint32:
		return "uint32_t"
	case schema.TypeInt8:
		return "int8_t"
	case schema.TypeInt16:
		return "int16_t"
	case schema.TypeInt32:
		return "int32_t"
	case schema.TypeFloat32:
		return "float"
	case schema.TypeBool:
		return "bool"
	}
	return "uint8_t"
}

func codecFn(typeName string) string {
	switch typeName {
	case schema.TypeUint8, schema.TypeInt8:
		return "U8"
	case schema.TypeUint16, schema.TypeInt16:
		return "U16"
	case schema.TypeUint32, schema.TypeInt32:
		return "U32"
	case schema.TypeFloat32:
		return "F32"
	case schema.TypeBool:
		return "Bool"
	}
	return "U8"
}

// castFor converts signed members to the unsigned codec argument type.
func castFor(typeName, member string) string {
	switch typeName {
	case schema.TypeInt8:
		return fmt.Sprintf("static_cast<uint8_t>(%s)", member)
	case schema.TypeInt16:
		return fmt.Sprintf("static_cast<uint16_t>(%s)", member)
	case schema.TypeInt32:
		return fmt.Sprintf("static_cast<uint32_t>(%s)", member)
	}
	return member
}

// castBack converts the unsigned codec result back into signed members.
func castBack(typeName, expr string) string {
	switch typeName {
	case schema.TypeInt8:
		return fmt.Sprintf("static_cast<int8_t>(%s)", expr)
	case schema.TypeInt16:
		return fmt.Sprintf("static_cast<int16_t>(%s)", expr)
	case schema.TypeInt32:
		return fmt.Sprintf("static_cast<int32_t>(%s)", expr)
	}
	return expr
}
