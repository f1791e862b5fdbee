package schema

import "github.com/petitechose-audio/protocol-codegen/pkg/errors"

// Flow is the direction a message travels, which determines its ID range.
type Flow string

const (
	ControllerToHost Flow = "controller_to_host"
	HostToController Flow = "host_to_controller"
	Bidirectional    Flow = "bidirectional"
)

// ParseFlow converts a document-level flow string into a Flow.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case ControllerToHost, HostToController, Bidirectional:
		return Flow(s), nil
	}
	return "", errors.Newf(ErrInvalidFlow, "unknown flow %q", s)
}

// Valid reports whether the flow is one of the three known directions.
func (f Flow) Valid() bool {
	switch f {
	case ControllerToHost, HostToController, Bidirectional:
		return true
	}
	return false
}

// Message is one protocol message: a unique name, a flow direction, a
// description and an ordered field list. Name and flow are fixed at
// construction; the core never mutates a message after the loader built it.
type Message struct {
	name        string
	flow        Flow
	description string
	fields      []Field
}

// NewMessage constructs a message. Name is mandatory; there is no
// back-patching of names after the fact.
func NewMessage(name string, flow Flow, description string, fields []Field) (*Message, error) {
	if name == "" {
		return nil, errors.New(ErrEmptyMessageName, "message name must not be empty")
	}
	if !flow.Valid() {
		return nil, errors.Newf(ErrInvalidFlow, "message %q has unknown flow %q", name, flow)
	}
	return &Message{
		name:        name,
		flow:        flow,
		description: description,
		fields:      fields,
	}, nil
}

func (m *Message) Name() string        { return m.name }
func (m *Message) Flow() Flow          { return m.flow }
func (m *Message) Description() string { return m.description }

// Fields returns the top-level fields in declaration order.
func (m *Message) Fields() []Field { return m.fields }
