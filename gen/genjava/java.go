// Package genjava renders the Java backend: protocol constants, the
// message ID enum, byte-level codec helpers and one class per message.
// Like the C++ backend it consumes the layout IR verbatim.
package genjava

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/petitechose-audio/protocol-codegen/gen"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Emitter is the Java code emission backend.
type Emitter struct{}

func New() *Emitter { return &Emitter{} }

func (e *Emitter) Target() string { return "java" }

func (e *Emitter) Emit(ctx *gen.Context) ([]gen.File, error) {
	files := []gen.File{
		{Path: "ProtocolConstants.java", Content: []byte(constantsJava(ctx))},
		{Path: "MessageID.java", Content: []byte(messageIDJava(ctx))},
		{Path: "Codec.java", Content: []byte(codecJava(ctx))},
	}
	for _, m := range ctx.Messages {
		content, err := classJava(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "emit class for message %s", m.Name())
		}
		files = append(files, gen.File{
			Path:    gen.PascalCase(m.Name()) + "Message.java",
			Content: []byte(content),
		})
	}
	return files, nil
}

// javaByte renders a byte literal, casting values above 127 as Java bytes
// are signed.
func javaByte(v byte) string {
	if v >= 0x80 {
		return fmt.Sprintf("(byte) 0x%02X", v)
	}
	return fmt.Sprintf("0x%02X", v)
}

func constantsJava(ctx *gen.Context) string {
	pkg := ctx.Config.Output.Java.Namespace
	f := ctx.Config.Frame
	l := ctx.Config.Limits

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\npackage %s;\n\n", gen.Header, pkg)
	b.WriteString("/** Protocol framing constants and encoding limits. */\n")
	b.WriteString("public final class ProtocolConstants {\n\n")
	b.WriteString("    private ProtocolConstants() {}\n\n")
	fmt.Fprintf(&b, "    /** SysEx start byte */\n    public static final byte SYSEX_START = %s;\n\n", javaByte(f.Start))
	fmt.Fprintf(&b, "    /** SysEx end byte */\n    public static final byte SYSEX_END = %s;\n\n", javaByte(f.End))
	fmt.Fprintf(&b, "    /** MIDI manufacturer ID */\n    public static final byte MANUFACTURER_ID = %s;\n\n", javaByte(f.ManufacturerID))
	fmt.Fprintf(&b, "    /** Device identifier */\n    public static final byte DEVICE_ID = %s;\n\n", javaByte(f.DeviceID))
	fmt.Fprintf(&b, "    /** Minimum valid SysEx message length */\n    public static final int MIN_MESSAGE_LENGTH = %d;\n\n", f.MinMessageLength)
	fmt.Fprintf(&b, "    /** Position of the message ID byte */\n    public static final int MESSAGE_TYPE_OFFSET = %d;\n\n", f.MessageTypeOffset)
	fmt.Fprintf(&b, "    /** Position of the fromHost flag */\n    public static final int FROM_HOST_OFFSET = %d;\n\n", f.FromHostOffset)
	fmt.Fprintf(&b, "    /** Start of payload data */\n    public static final int PAYLOAD_OFFSET = %d;\n\n", f.PayloadOffset)
	fmt.Fprintf(&b, "    /** Maximum characters per string field */\n    public static final int STRING_MAX_LENGTH = %d;\n\n", l.StringMaxLength)
	fmt.Fprintf(&b, "    /** Maximum items per array field */\n    public static final int ARRAY_MAX_ITEMS = %d;\n\n", l.ArrayMaxItems)
	fmt.Fprintf(&b, "    /** Maximum payload bytes */\n    public static final int MAX_PAYLOAD_SIZE = %d;\n\n", l.MaxPayloadSize)
	fmt.Fprintf(&b, "    /** Maximum total message bytes */\n    public static final int MAX_MESSAGE_SIZE = %d;\n", l.MaxMessageSize)
	b.WriteString("}\n")
	return b.String()
}

func messageIDJava(ctx *gen.Context) string {
	pkg := ctx.Config.Output.Java.Namespace

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\npackage %s;\n\n", gen.Header, pkg)
	b.WriteString("/** Allocated message IDs, partitioned by flow direction. */\n")
	b.WriteString("public enum MessageID {\n")
	ordered := ctx.MessagesByID()
	for i, m := range ordered {
		sep := ","
		if i == len(ordered)-1 {
			sep = ";"
		}
		fmt.Fprintf(&b, "    %s(0x%02X)%s\n", m.Name(), ctx.Allocation[m.Name()], sep)
	}
	b.WriteString(`
    private final int id;

    MessageID(int id) {
        this.id = id;
    }

    public byte toByte() {
        return (byte) id;
    }

    public static MessageID fromByte(byte b) {
        int v = b & 0xFF;
        for (MessageID m : values()) {
            if (m.id == v) {
                return m;
            }
        }
        throw new IllegalArgumentException("unknown message ID: " + v);
    }
}
`)
	return b.String()
}

// codecJava renders the byte-level helpers. Payload bytes are masked to
// the 7-bit range the SysEx envelope requires; multi-byte values are
// big-endian, 7 bits per wire byte.
func codecJava(ctx *gen.Context) string {
	pkg := ctx.Config.Output.Java.Namespace

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\npackage %s;\n\n", gen.Header, pkg)
	b.WriteString(`/** Byte-level payload codec shared by all generated messages. */
public final class Codec {

    private Codec() {}

    public static void writeU8(byte[] frame, int off, int v) {
        frame[off] = (byte) (v & 0x7F);
    }

    public static void writeU16(byte[] frame, int off, int v) {
        frame[off] = (byte) ((v >> 8) & 0x7F);
        frame[off + 1] = (byte) (v & 0x7F);
    }

    public static void writeU32(byte[] frame, int off, long v) {
        frame[off] = (byte) ((v >> 24) & 0x7F);
        frame[off + 1] = (byte) ((v >> 16) & 0x7F);
        frame[off + 2] = (byte) ((v >> 8) & 0x7F);
        frame[off + 3] = (byte) (v & 0x7F);
    }

    public static void writeF32(byte[] frame, int off, float v) {
        writeU32(frame, off, Float.floatToIntBits(v) & 0xFFFFFFFFL);
    }

    public static void writeBool(byte[] frame, int off, boolean v) {
        frame[off] = (byte) (v ? 0x01 : 0x00);
    }

    public static void writeString(byte[] frame, int off, String s, int maxLen) {
        int n = s == null ? 0 : Math.min(s.length(), maxLen);
        frame[off] = (byte) (n & 0x7F);
        for (int i = 0; i < n; i++) {
            frame[off + 1 + i] = (byte) (s.charAt(i) & 0x7F);
        }
        for (int i = n; i < maxLen; i++) {
            frame[off + 1 + i] = 0x00;
        }
    }

    public static int readU8(byte[] frame, int off) {
        return frame[off] & 0x7F;
    }

    public static int readU16(byte[] frame, int off) {
        return ((frame[off] & 0x7F) << 8) | (frame[off + 1] & 0x7F);
    }

    public static long readU32(byte[] frame, int off) {
        return ((long) (frame[off] & 0x7F) << 24)
                | ((long) (frame[off + 1] & 0x7F) << 16)
                | ((long) (frame[off + 2] & 0x7F) << 8)
                | (frame[off + 3] & 0x7F);
    }

    public static float readF32(byte[] frame, int off) {
        return Float.intBitsToFloat((int) readU32(frame, off));
    }

    public static boolean readBool(byte[] frame, int off) {
        return frame[off] != 0x00;
    }

    public static String readString(byte[] frame, int off, int maxLen) {
        int n = Math.min(frame[off] & 0x7F, maxLen);
        StringBuilder sb = new StringBuilder(n);
        for (int i = 0; i < n; i++) {
            sb.append((char) (frame[off + 1 + i] & 0x7F));
        }
        return sb.toString();
    }
}
`)
	return b.String()
}

func classJava(ctx *gen.Context, m *schema.Message) (string, error) {
	pkg := ctx.Config.Output.Java.Namespace
	entry := ctx.Layout(m.Name())
	if entry == nil {
		return "", errors.Errorf("no layout entry for message %s", m.Name())
	}
	className := gen.PascalCase(m.Name()) + "Message"

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\npackage %s;\n\n", gen.Header, pkg)
	if m.Description() != "" {
		fmt.Fprintf(&b, "/** %s */\n", m.Description())
	}
	fmt.Fprintf(&b, "public final class %s {\n\n", className)
	fmt.Fprintf(&b, "    public static final MessageID ID = MessageID.%s;\n", m.Name())
	fmt.Fprintf(&b, "    public static final int PAYLOAD_SIZE = %d;\n", entry.PayloadSize)
	fmt.Fprintf(&b, "    public static final int FRAME_SIZE = %d;\n\n", entry.FrameSize)

	w := &classWriter{ctx: ctx, b: &b, lays: indexLayout(entry)}
	for _, f := range m.Fields() {
		if err := w.member(f, "    "); err != nil {
			return "", err
		}
	}

	b.WriteString("\n    /** Builds the full frame, including envelope bytes. */\n")
	b.WriteString("    public byte[] encode(boolean fromHost) {\n")
	b.WriteString("        byte[] frame = new byte[FRAME_SIZE];\n")
	b.WriteString("        frame[0] = ProtocolConstants.SYSEX_START;\n")
	b.WriteString("        frame[1] = ProtocolConstants.MANUFACTURER_ID;\n")
	b.WriteString("        frame[2] = ProtocolConstants.DEVICE_ID;\n")
	b.WriteString("        frame[ProtocolConstants.MESSAGE_TYPE_OFFSET] = ID.toByte();\n")
	b.WriteString("        frame[ProtocolConstants.FROM_HOST_OFFSET] = (byte) (fromHost ? 0x01 : 0x00);\n")
	for _, f := range m.Fields() {
		if err := w.codecField(f, "this.", f.Name(), "        ", nil, true); err != nil {
			return "", err
		}
	}
	b.WriteString("        frame[FRAME_SIZE - 1] = ProtocolConstants.SYSEX_END;\n")
	b.WriteString("        return frame;\n")
	b.WriteString("    }\n\n")

	fmt.Fprintf(&b, "    public static %s decode(byte[] frame) {\n", className)
	fmt.Fprintf(&b, "        %s msg = new %s();\n", className, className)
	for _, f := range m.Fields() {
		if err := w.codecField(f, "msg.", f.Name(), "        ", nil, false); err != nil {
			return "", err
		}
	}
	b.WriteString("        return msg;\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String(), nil
}

type classWriter struct {
	ctx  *gen.Context
	b    *strings.Builder
	lays map[string]layout.FieldLayout
}

func indexLayout(entry *layout.Entry) map[string]layout.FieldLayout {
	idx := make(map[string]layout.FieldLayout, len(entry.Fields))
	for _, fl := range entry.Fields {
		idx[fl.Path] = fl
	}
	return idx
}

func (w *classWriter) member(f schema.Field, indent string) error {
	switch field := f.(type) {
	case *schema.PrimitiveField:
		desc, err := w.ctx.Registry.Lookup(field.TypeName())
		if err != nil {
			return err
		}
		if desc.Category == schema.CategoryString {
			fmt.Fprintf(w.b, "%spublic String %s = \"\";\n", indent, field.Name())
			return nil
		}
		fmt.Fprintf(w.b, "%spublic %s %s;\n", indent, javaType(field.TypeName()), field.Name())
		return nil

	case *schema.CompositeField:
		typeName := gen.PascalCase(field.Name())
		fmt.Fprintf(w.b, "%spublic static final class %s {\n", indent, typeName)
		for _, child := range field.Fields() {
			if err := w.member(child, indent+"    "); err != nil {
				return err
			}
		}
		fmt.Fprintf(w.b, "%s}\n", indent)
		if field.IsArray() {
			fmt.Fprintf(w.b, "%spublic final %s[] %s = new %s[%d];\n", indent, typeName, field.Name(), typeName, field.ArrayCapacity())
			fmt.Fprintf(w.b, "%s{\n%s    for (int i = 0; i < %d; i++) { %s[i] = new %s(); }\n%s}\n",
				indent, indent, field.ArrayCapacity(), field.Name(), typeName, indent)
		} else {
			fmt.Fprintf(w.b, "%spublic final %s %s = new %s();\n", indent, typeName, field.Name(), typeName)
		}
		return nil
	}
	return errors.Errorf("unknown field kind %T", f)
}

func (w *classWriter) codecField(f schema.Field, memberBase, irPath, indent string, loops []loopCtx, encode bool) error {
	lay, ok := w.lays[irPath]
	if !ok {
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
			max := w.stringMax(field)
			if encode {
				fmt.Fprintf(w.b, "%sCodec.writeString(frame, %s, %s, %d);\n", indent, offset, member, max)
			} else {
				fmt.Fprintf(w.b, "%s%s = Codec.readString(frame, %s, %d);\n", indent, member, offset, max)
			}
			return nil
		}
		fn := codecFn(field.TypeName())
		if encode {
			fmt.Fprintf(w.b, "%sCodec.write%s(frame, %s, %s);\n", indent, fn, offset, writeArg(field.TypeName(), member))
		} else {
			fmt.Fprintf(w.b, "%s%s = %s;\n", indent, member, readExpr(field.TypeName(), fmt.Sprintf("Codec.read%s(frame, %s)", fn, offset)))
		}
		return nil

	case *schema.CompositeField:
		if field.IsArray() {
			stride := lay.Width / field.ArrayCapacity()
			loopVar := fmt.Sprintf("i%d", len(loops))
			fmt.Fprintf(w.b, "%sfor (int %s = 0; %s < %d; %s++) {\n", indent, loopVar, loopVar, field.ArrayCapacity(), loopVar)
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

func offsetExpr(offset int, loops []loopCtx) string {
	expr := fmt.Sprintf("%d", offset)
	for _, l := range loops {
		expr += fmt.Sprintf(" + %s * %d", l.v, l.stride)
	}
	return expr
}

func (w *classWriter) stringMax(f *schema.PrimitiveField) int {
	if f.MaxLength() > 0 {
		return f.MaxLength()
	}
	return w.ctx.Config.Limits.StringMaxLength
}

func javaType(typeName string) string {
	switch typeName {
	case schema.TypeUint8, schema.TypeInt8, schema.TypeUint16, schema.TypeInt16, schema.TypeInt32:
		return "int"
	case schema.TypeUint32:
		return "long"
	case schema.TypeFloat32:
		return "float"
	case schema.TypeBool:
		return "boolean"
	}
	return "int"
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

// writeArg adapts a member to the codec write parameter type.
func writeArg(typeName, member string) string {
	if typeName == schema.TypeInt32 {
		return fmt.Sprintf("%s & 0xFFFFFFFFL", member)
	}
	return member
}

// readExpr adapts a codec read result back to the member type.
func readExpr(typeName, expr string) string {
	if typeName == schema.TypeInt32 {
		return fmt.Sprintf("(int) %s", expr)
	}
	return expr
}
