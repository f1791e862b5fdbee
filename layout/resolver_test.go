package layout

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

func mustPrimitive(t *testing.T, name, typeName string) schema.Field {
	t.Helper()
	f, err := schema.NewPrimitive(name, typeName)
	require.NoError(t, err)
	return f
}

func TestResolvePrimitiveOffsets(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	m, err := schema.NewMessage("SENSOR_READING", schema.ControllerToHost, "", []schema.Field{
		mustPrimitive(t, "sensor_id", schema.TypeUint8),
		mustPrimitive(t, "value", schema.TypeUint16),
		mustPrimitive(t, "timestamp", schema.TypeUint32),
	})
	require.NoError(t, err)

	entry, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
	require.NoError(t, err)

	want := []FieldLayout{
		{Path: "sensor_id", Offset: 5, Width: 1, Category: schema.CategoryUnsignedInt},
		{Path: "value", Offset: 6, Width: 2, Category: schema.CategoryUnsignedInt},
		{Path: "timestamp", Offset: 8, Width: 4, Category: schema.CategoryUnsignedInt},
	}
	assert.Equal(t, want, entry.Fields)
	assert.Equal(t, 7, entry.PayloadSize)
	// payload offset + payload + end byte
	assert.Equal(t, 13, entry.FrameSize)
}

func TestResolveStringSlots(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	bounded, err := schema.NewString("label", 16)
	require.NoError(t, err)
	unbounded, err := schema.NewString("notes", 0)
	require.NoError(t, err)

	m, err := schema.NewMessage("SENSOR_INFO", schema.ControllerToHost, "", []schema.Field{bounded, unbounded})
	require.NoError(t, err)

	entry, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
	require.NoError(t, err)

	// Length prefix byte plus max length; the unbounded string falls back
	// to the configured default.
	assert.Equal(t, 17, entry.Fields[0].Width)
	assert.Equal(t, 1+cfg.Limits.StringMaxLength, entry.Fields[1].Width)
	assert.Equal(t, 5+17, entry.Fields[1].Offset)
}

func TestResolveCompositeArray(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	reading, err := schema.NewCompositeArray("readings", []schema.Field{
		mustPrimitive(t, "sensor_id", schema.TypeUint8),
		mustPrimitive(t, "value", schema.TypeUint16),
	}, 4)
	require.NoError(t, err)

	m, err := schema.NewMessage("SENSOR_READING_BATCH", schema.ControllerToHost, "", []schema.Field{
		mustPrimitive(t, "count", schema.TypeUint8),
		reading,
	})
	require.NoError(t, err)

	entry, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
	require.NoError(t, err)

	byPath := map[string]FieldLayout{}
	for _, f := range entry.Fields {
		byPath[f.Path] = f
	}

	arr := byPath["readings"]
	assert.Equal(t, 6, arr.Offset)
	assert.Equal(t, 4*3, arr.Width)
	assert.Equal(t, schema.CategoryCompositeArray, arr.Category)

	// Children are resolved against the first element; the emitters add
	// the per-element stride themselves.
	assert.Equal(t, 6, byPath["readings[].sensor_id"].Offset)
	assert.Equal(t, 7, byPath["readings[].value"].Offset)

	assert.Equal(t, 1+12, entry.PayloadSize)
}

func TestResolveIsIdempotent(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	inner, err := schema.NewComposite("position", []schema.Field{
		mustPrimitive(t, "x", schema.TypeFloat32),
		mustPrimitive(t, "y", schema.TypeFloat32),
	})
	require.NoError(t, err)

	m, err := schema.NewMessage("NODE_STATUS", schema.Bidirectional, "", []schema.Field{
		mustPrimitive(t, "node_id", schema.TypeUint8),
		inner,
		mustPrimitive(t, "active", schema.TypeBool),
	})
	require.NoError(t, err)

	first, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
		require.NoError(t, err)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resolution %d differs from the first", i)
		}
	}
}

func TestResolveReportsSizeInvariantViolation(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxPayloadSize = 8
	reg := schema.NewBuiltinRegistry()

	m, err := schema.NewMessage("TOO_BIG", schema.ControllerToHost, "", []schema.Field{
		mustPrimitive(t, "a", schema.TypeUint32),
		mustPrimitive(t, "b", schema.TypeUint32),
		mustPrimitive(t, "c", schema.TypeUint8),
	})
	require.NoError(t, err)

	_, err = Resolve(m, reg, cfg.Frame, cfg.Limits)
	assert.True(t, errors.HasCode(err, ErrSizeInvariantViolated), "got %v", err)
}

func TestFieldWidthDetectsCyclicShape(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	node, err := schema.NewComposite("node", nil)
	require.NoError(t, err)
	node.Attach([]schema.Field{mustPrimitive(t, "depth", schema.TypeUint8), node})

	_, err = FieldWidth(node, reg, cfg.Limits)
	assert.True(t, errors.HasCode(err, ErrCyclicShape), "got %v", err)
}

func TestMessageWidthMatchesResolvedPayload(t *testing.T) {
	cfg := config.Default()
	reg := schema.NewBuiltinRegistry()

	str, err := schema.NewString("name", 8)
	require.NoError(t, err)
	arr, err := schema.NewCompositeArray("samples", []schema.Field{
		mustPrimitive(t, "v", schema.TypeInt16),
	}, 3)
	require.NoError(t, err)

	m, err := schema.NewMessage("MIXED", schema.HostToController, "", []schema.Field{
		mustPrimitive(t, "id", schema.TypeUint8), str, arr,
	})
	require.NoError(t, err)

	width, err := MessageWidth(m, reg, cfg.Limits)
	require.NoError(t, err)

	entry, err := Resolve(m, reg, cfg.Frame, cfg.Limits)
	require.NoError(t, err)
	assert.Equal(t, entry.PayloadSize, width)
}
