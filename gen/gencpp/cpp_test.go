package gencpp

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
	cfg.Output.Cpp.Namespace = "SensorProtocol"
	reg := schema.NewBuiltinRegistry()

	id, err := schema.NewPrimitive("sensor_id", schema.TypeUint8)
	require.NoError(t, err)
	temp, err := schema.NewPrimitive("temperature", schema.TypeInt16)
	require.NoError(t, err)
	label, err := schema.NewString("label", 8)
	require.NoError(t, err)

	readings, err := schema.NewCompositeArray("readings", []schema.Field{
		mustPrim(t, "sensor_id", schema.TypeUint8),
		mustPrim(t, "value", schema.TypeUint16),
	}, 4)
	require.NoError(t, err)

	single, err := schema.NewMessage("SENSOR_READING_SINGLE", schema.ControllerToHost,
		"one sensor sample", []schema.Field{id, temp, label})
	require.NoError(t, err)
	batch, err := schema.NewMessage("SENSOR_READING_BATCH", schema.ControllerToHost, "",
		[]schema.Field{mustPrim(t, "count", schema.TypeUint8), readings})
	require.NoError(t, err)

	messages := []*schema.Message{single, batch}
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
		"ProtocolConstants.hpp",
		"MessageID.hpp",
		"Codec.hpp",
		"struct/SensorReadingSingleMessage.hpp",
		"struct/SensorReadingBatchMessage.hpp",
	} {
		assert.Contains(t, files, path)
	}
}

func TestConstantsHeader(t *testing.T) {
	constants := emitted(t)["ProtocolConstants.hpp"]

	assert.Contains(t, constants, "// "+gen.Header)
	assert.Contains(t, constants, "namespace SensorProtocol {")
	assert.Contains(t, constants, "constexpr uint8_t kSysExStart = 0xF0;")
	assert.Contains(t, constants, "constexpr uint8_t kSysExEnd = 0xF7;")
	assert.Contains(t, constants, "constexpr uint8_t kManufacturerId = 0x7D;")
	assert.Contains(t, constants, "constexpr size_t kPayloadOffset = 5;")
}

func TestMessageIDEnum(t *testing.T) {
	enum := emitted(t)["MessageID.hpp"]

	assert.Contains(t, enum, "enum class MessageID : uint8_t {")
	assert.Contains(t, enum, "kSensorReadingSingle = 0x00,")
	assert.Contains(t, enum, "kSensorReadingBatch = 0x01,")
}

func TestCodecMasksPayloadBytes(t *testing.T) {
	codec := emitted(t)["Codec.hpp"]

	assert.Contains(t, codec, "frame[off] = v & 0x7F;")
	assert.Contains(t, codec, "frame[off] = (v >> 8) & 0x7F;")
	assert.Contains(t, codec, "inline void writeString(")
	assert.Contains(t, codec, "inline float readF32(")
}

func TestStructHeaderMembersAndSizes(t *testing.T) {
	single := emitted(t)["struct/SensorReadingSingleMessage.hpp"]

	assert.Contains(t, single, "// one sensor sample")
	assert.Contains(t, single, "struct SensorReadingSingleMessage {")
	assert.Contains(t, single, "static constexpr MessageID kId = MessageID::kSensorReadingSingle;")
	// uint8 + int16 + string slot (1 + 8)
	assert.Contains(t, single, "static constexpr size_t kPayloadSize = 12;")
	assert.Contains(t, single, "static constexpr size_t kFrameSize = 18;")
	assert.Contains(t, single, "uint8_t sensor_id;")
	assert.Contains(t, single, "int16_t temperature;")
	// string member carries a terminator slot
	assert.Contains(t, single, "char label[9];")
}

func TestStructHeaderEncodeDecode(t *testing.T) {
	single := emitted(t)["struct/SensorReadingSingleMessage.hpp"]

	assert.Contains(t, single, "frame[kMessageTypeOffset] = static_cast<uint8_t>(kId);")
	assert.Contains(t, single, "codec::writeU8(frame, 5, this->sensor_id);")
	// signed members round-trip through the unsigned codec
	assert.Contains(t, single, "codec::writeU16(frame, 6, static_cast<uint16_t>(this->temperature));")
	assert.Contains(t, single, "this->temperature = static_cast<int16_t>(codec::readU16(frame, 6));")
	assert.Contains(t, single, "codec::writeString(frame, 8, this->label, 8);")
	assert.Contains(t, single, "frame[kFrameSize - 1] = kSysExEnd;")
}

func TestStructHeaderArrayLoops(t *testing.T) {
	batch := emitted(t)["struct/SensorReadingBatchMessage.hpp"]

	assert.Contains(t, batch, "} readings[4];")
	assert.Contains(t, batch, "for (size_t i0 = 0; i0 < 4; ++i0) {")
	// element stride is 3 bytes: uint8 + uint16
	assert.Contains(t, batch, "codec::writeU8(frame, 6 + i0 * 3, this->readings[i0].sensor_id);")
	assert.Contains(t, batch, "codec::writeU16(frame, 7 + i0 * 3, this->readings[i0].value);")
	assert.Contains(t, batch, "this->readings[i0].value = codec::readU16(frame, 7 + i0 * 3);")
}
