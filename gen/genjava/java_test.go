package genjava

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petitechose-audio/protocol-codegen/allocate"
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/gen"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

func testContext(t *testing.T) *gen.Context {
	t.Helper()

	cfg := config.Default()
	cfg.Output.Java.Namespace = "com.example.sensor"
	reg := schema.NewBuiltinRegistry()

	name, err := schema.NewString("name", 16)
	require.NoError(t, err)
	readings, err := schema.NewCompositeArray("readings", []schema.Field{
		mustPrim(t, "sensor_id", schema.TypeUint8),
		mustPrim(t, "value", schema.TypeInt32),
	}, 4)
	require.NoError(t, err)

	info, err := schema.NewMessage("SENSOR_INFO", schema.ControllerToHost, "sensor metadata",
		[]schema.Field{mustPrim(t, "sensor_id", schema.TypeUint8), name})
	require.NoError(t, err)
	batch, err := schema.NewMessage("SENSOR_READING_BATCH", schema.ControllerToHost, "",
		[]schema.Field{mustPrim(t, "count", schema.TypeUint8), readings})
	require.NoError(t, err)

	messages := []*schema.Message{info, batch}
	alloc, err := allocate.Allocate(messages)
	require.NoError(t, err)

	layouts := make(map[string]*layout.Entry, len(messages))
	for _, m := range messages {
		entry, err := layout.Resolve(m, reg, cfg.Frame, cfg.Limits)
		require.NoError(t, err)
		layouts[m.Name()] = entry
	}

	return &gen.Context{
		Messages:   messages,
		Allocation: alloc,
		Layouts:    layouts,
		Config:     cfg,
		Registry:   reg,
	}
}

func mustPrim(t *testing.T, name, typeName string) schema.Field {
	t.Helper()
	f, err := schema.NewPrimitive(name, typeName)
	require.NoError(t, err)
	return f
}

func emitted(t *testing.T) map[string]string {
	t.Helper()
	files, err := New().Emit(testContext(t))
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Content)
	}
	return out
}

func TestEmitFileSet(t *testing.T) {
	files := emitted(t)
	for _, path := range []string{
		"ProtocolConstants.java",
		"MessageID.java",
		"Codec.java",
		"SensorInfoMessage.java",
		"SensorReadingBatchMessage.java",
	} {
		assert.Contains(t, files, path)
	}
}

func TestConstantsClass(t *testing.T) {
	constants := emitted(t)["ProtocolConstants.java"]

	assert.Contains(t, constants, "package com.example.sensor;")
	// 0xF0 and 0xF7 are negative as Java bytes and need the cast
	assert.Contains(t, constants, "public static final byte SYSEX_START = (byte) 0xF0;")
	assert.Contains(t, constants, "public static final byte SYSEX_END = (byte) 0xF7;")
	assert.Contains(t, constants, "public static final byte MANUFACTURER_ID = 0x7D;")
	assert.Contains(t, constants, "public static final int PAYLOAD_OFFSET = 5;")
}

func TestMessageIDEnum(t *testing.T) {
	enum := emitted(t)["MessageID.java"]

	assert.Contains(t, enum, "public enum MessageID {")
	assert.Contains(t, enum, "SENSOR_INFO(0x00),")
	assert.Contains(t, enum, "SENSOR_READING_BATCH(0x01);")
	assert.Contains(t, enum, "public static MessageID fromByte(byte b) {")
}

func TestCodecClass(t *testing.T) {
	codec := emitted(t)["Codec.java"]

	assert.Contains(t, codec, "frame[off] = (byte) (v & 0x7F);")
	assert.Contains(t, codec, "Float.floatToIntBits(v)")
	assert.Contains(t, codec, "public static String readString(byte[] frame, int off, int maxLen) {")
}

func TestMessageClassMembersAndFrame(t *testing.T) {
	info := emitted(t)["SensorInfoMessage.java"]

	assert.Contains(t, info, "/** sensor metadata */")
	assert.Contains(t, info, "public final class SensorInfoMessage {")
	assert.Contains(t, info, "public static final MessageID ID = MessageID.SENSOR_INFO;")
	// uint8 + string slot (1 + 16)
	assert.Contains(t, info, "public static final int PAYLOAD_SIZE = 18;")
	assert.Contains(t, info, "public static final int FRAME_SIZE = 24;")
	assert.Contains(t, info, "public int sensor_id;")
	assert.Contains(t, info, `public String name = "";`)
	assert.Contains(t, info, "frame[ProtocolConstants.MESSAGE_TYPE_OFFSET] = ID.toByte();")
	assert.Contains(t, info, "Codec.writeString(frame, 6, this.name, 16);")
	assert.Contains(t, info, "msg.name = Codec.readString(frame, 6, 16);")
}

func TestMessageClassArrayAndSignedInts(t *testing.T) {
	batch := emitted(t)["SensorReadingBatchMessage.java"]

	assert.Contains(t, batch, "public static final class Readings {")
	assert.Contains(t, batch, "public final Readings[] readings = new Readings[4];")
	assert.Contains(t, batch, "for (int i = 0; i < 4; i++) { readings[i] = new Readings(); }")
	assert.Contains(t, batch, "for (int i0 = 0; i0 < 4; i0++) {")
	// element stride is 5 bytes: uint8 + int32
	assert.Contains(t, batch, "Codec.writeU8(frame, 6 + i0 * 5, this.readings[i0].sensor_id);")
	// signed 32-bit values round-trip through the long codec
	assert.Contains(t, batch, "Codec.writeU32(frame, 7 + i0 * 5, this.readings[i0].value & 0xFFFFFFFFL);")
	assert.Contains(t, batch, "msg.readings[i0].value = (int) Codec.readU32(frame, 7 + i0 * 5);")
}
