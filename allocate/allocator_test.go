package allocate

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

func mustMessage(t *testing.T, name string, flow schema.Flow) *schema.Message {
	t.Helper()
	m, err := schema.NewMessage(name, flow, "", nil)
	if err != nil {
		t.Fatalf("NewMessage(%q): %v", name, err)
	}
	return m
}

func TestAllocateSequentialPerFlow(t *testing.T) {
	messages := []*schema.Message{
		mustMessage(t, "SENSOR_READING_SINGLE", schema.ControllerToHost),
		mustMessage(t, "REQUEST_SENSOR_LIST", schema.HostToController),
		mustMessage(t, "SENSOR_READING_BATCH", schema.ControllerToHost),
		mustMessage(t, "SENSOR_CONFIG_SET", schema.HostToController),
		mustMessage(t, "PING", schema.Bidirectional),
		mustMessage(t, "SENSOR_LIST", schema.ControllerToHost),
	}

	alloc, err := Allocate(messages)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	want := Allocation{
		"SENSOR_READING_SINGLE": 0,
		"SENSOR_READING_BATCH":  1,
		"SENSOR_LIST":           2,
		"REQUEST_SENSOR_LIST":   64,
		"SENSOR_CONFIG_SET":     65,
		"PING":                  192,
	}
	if !reflect.DeepEqual(alloc, want) {
		t.Errorf("allocation mismatch:\n got %v\nwant %v", alloc, want)
	}
}

func TestAllocateIsDeterministic(t *testing.T) {
	messages := []*schema.Message{
		mustMessage(t, "A", schema.ControllerToHost),
		mustMessage(t, "B", schema.HostToController),
		mustMessage(t, "C", schema.Bidirectional),
		mustMessage(t, "D", schema.ControllerToHost),
	}

	first, err := Allocate(messages)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Allocate(messages)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different allocation:\n got %v\nwant %v", i, again, first)
		}
	}
}

func TestAllocateExhaustsFlowRange(t *testing.T) {
	r := Ranges[schema.ControllerToHost]
	var messages []*schema.Message
	for i := 0; i <= r.Capacity(); i++ {
		messages = append(messages, mustMessage(t, fmt.Sprintf("MSG_%d", i), schema.ControllerToHost))
	}

	_, err := Allocate(messages)
	if !errors.HasCode(err, ErrIDSpaceExhausted) {
		t.Fatalf("expected id_space_exhausted, got %v", err)
	}
	allocErr := errors.AsError(err)
	if allocErr.Context["flow"] != string(schema.ControllerToHost) {
		t.Errorf("error should carry the exhausted flow, got %v", allocErr.Context)
	}
}

func TestRangesPartitionTheIDByte(t *testing.T) {
	total := 0
	for _, r := range Ranges {
		total += r.Capacity()
	}
	if total != 256 {
		t.Errorf("ranges should cover the full ID byte, got %d IDs", total)
	}
	if Ranges[schema.ControllerToHost].High+1 != Ranges[schema.HostToController].Low {
		t.Error("controller and host ranges must be adjacent")
	}
	if Ranges[schema.HostToController].High+1 != Ranges[schema.Bidirectional].Low {
		t.Error("host and bidirectional ranges must be adjacent")
	}
}
