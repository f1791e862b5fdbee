// Package allocate assigns every message its unique protocol ID. Messages
// are partitioned by flow direction, each partition owning a fixed,
// disjoint slice of the single ID byte, and IDs are handed out
// sequentially in declaration order. Allocation is fully deterministic:
// the same ordered input always yields the same mapping.
package allocate

import (
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Range is the inclusive ID range owned by one flow class.
type Range struct {
	Low  int
	High int
}

// Capacity returns the number of IDs in the range.
func (r Range) Capacity() int { return r.High - r.Low + 1 }

// Ranges maps each flow class to its fixed ID range. The three ranges
// partition the byte: 64 controller IDs, 128 host IDs, 64 bidirectional.
var Ranges = map[schema.Flow]Range{
	schema.ControllerToHost: {Low: 0, High: 63},
	schema.HostToController: {Low: 64, High: 191},
	schema.Bidirectional:    {Low: 192, High: 255},
}

// Allocation maps message names to their assigned IDs.
type Allocation map[string]int

// Allocate assigns IDs to a validated message set. It must only run after
// validation returned no diagnostics. Exhausting a flow class's range is a
// hard stop, not a collected diagnostic: it can only be judged once the
// whole message set is known.
func Allocate(messages []*schema.Message) (Allocation, error) {
	next := map[schema.Flow]int{
		schema.ControllerToHost: Ranges[schema.ControllerToHost].Low,
		schema.HostToController: Ranges[schema.HostToController].Low,
		schema.Bidirectional:    Ranges[schema.Bidirectional].Low,
	}

	alloc := make(Allocation, len(messages))
	for _, m := range messages {
		flow := m.Flow()
		r := Ranges[flow]
		id := next[flow]
		if id > r.High {
			return nil, errors.Newf(ErrIDSpaceExhausted,
				"flow %s has more than %d messages", flow, r.Capacity()).
				AddContext("flow", string(flow))
		}
		alloc[m.Name()] = id
		next[flow] = id + 1
	}
	return alloc, nil
}
