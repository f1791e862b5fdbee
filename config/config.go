package config

import (
	"os"

	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the fully enumerated protocol configuration. It is loaded and
// validated once before any message is processed and never re-interpreted
// downstream: every stage receives this struct, not a loose map.
type Config struct {
	Frame  Frame  `yaml:"frame"`
	Limits Limits `yaml:"limits"`
	Output Output `yaml:"output"`
}

// Frame describes the SysEx wire envelope:
// [start, manufacturer_id, device_id, message_type, from_host_flag, payload..., end]
type Frame struct {
	Start             byte `yaml:"start"`
	End               byte `yaml:"end"`
	ManufacturerID    byte `yaml:"manufacturer_id"`
	DeviceID          byte `yaml:"device_id"`
	MinMessageLength  int  `yaml:"min_message_length"`
	MessageTypeOffset int  `yaml:"message_type_offset"`
	FromHostOffset    int  `yaml:"from_host_offset"`
	PayloadOffset     int  `yaml:"payload_offset"`
}

// Limits are the invariant ceilings enforced during validation and layout.
type Limits struct {
	StringMaxLength int `yaml:"string_max_length"`
	ArrayMaxItems   int `yaml:"array_max_items"`
	MaxPayloadSize  int `yaml:"max_payload_size"`
	MaxMessageSize  int `yaml:"max_message_size"`
}

// Output configures the code emission targets.
type Output struct {
	Cpp  Target `yaml:"cpp"`
	Java Target `yaml:"java"`
}

// Target is one emission backend's output location and naming scope.
type Target struct {
	BasePath string `yaml:"base_path"`
	// Namespace is the C++ namespace or Java package, depending on target.
	Namespace string `yaml:"namespace"`
}

// Default returns the builtin configuration: MIDI SysEx framing with the
// educational manufacturer ID and the stock encoding limits.
func Default() *Config {
	return &Config{
		Frame: Frame{
			Start:             0xF0,
			End:               0xF7,
			ManufacturerID:    0x7D, // educational/development use
			DeviceID:          0x00, // all devices
			MinMessageLength:  6,
			MessageTypeOffset: 3, // after start, manufacturer_id, device_id
			FromHostOffset:    4,
			PayloadOffset:     5,
		},
		Limits: Limits{
			StringMaxLength: 127,
			ArrayMaxItems:   127,
			MaxPayloadSize:  512,
			MaxMessageSize:  1024,
		},
		Output: Output{
			Cpp:  Target{BasePath: "generated/cpp", Namespace: "Protocol"},
			Java: Target{BasePath: "generated/java", Namespace: "com.example.protocol"},
		},
	}
}

// Load reads a YAML config file, overlaying it on the defaults, and
// validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(ErrFileReadFailed, err, "failed to read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(ErrFileParseFailed, err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(ErrValidationFailed, err, "configuration validation failed")
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(ErrFileWriteFailed, err, "failed to marshal config")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(ErrFileWriteFailed, err, "failed to write config file")
	}
	return nil
}

// Validate checks that framing offsets and limits are mutually consistent.
// A failure here is fatal and surfaces before any message is processed.
func (c *Config) Validate() error {
	if err := c.Frame.Validate(); err != nil {
		return err
	}
	return c.Limits.Validate(c.Frame)
}

// Validate checks the frame envelope for internal consistency.
func (f Frame) Validate() error {
	if f.Start == f.End {
		return errors.Newf(ErrInvalidFrame, "start byte 0x%02X equals end byte", f.Start)
	}
	if f.MessageTypeOffset < 3 {
		// Offsets 0..2 are start, manufacturer_id and device_id.
		return errors.Newf(ErrInvalidFrame, "message_type_offset %d overlaps envelope header", f.MessageTypeOffset)
	}
	if f.FromHostOffset <= f.MessageTypeOffset {
		return errors.Newf(ErrInvalidFrame, "from_host_offset %d must follow message_type_offset %d",
			f.FromHostOffset, f.MessageTypeOffset)
	}
	if f.PayloadOffset <= f.FromHostOffset {
		return errors.Newf(ErrInvalidFrame, "payload_offset %d must follow from_host_offset %d",
			f.PayloadOffset, f.FromHostOffset)
	}
	if f.MinMessageLength < f.PayloadOffset+1 {
		return errors.Newf(ErrInvalidFrame, "min_message_length %d shorter than empty frame (payload_offset %d + end byte)",
			f.MinMessageLength, f.PayloadOffset)
	}
	return nil
}

// Validate checks the limits against each other and the frame overhead.
func (l Limits) Validate(f Frame) error {
	if l.StringMaxLength < 1 || l.StringMaxLength > 255 {
		return errors.Newf(ErrInvalidLimits, "string_max_length %d outside 1..255", l.StringMaxLength)
	}
	if l.ArrayMaxItems < 1 || l.ArrayMaxItems > 255 {
		return errors.Newf(ErrInvalidLimits, "array_max_items %d outside 1..255", l.ArrayMaxItems)
	}
	if l.MaxPayloadSize < 1 {
		return errors.Newf(ErrInvalidLimits, "max_payload_size %d must be positive", l.MaxPayloadSize)
	}
	overhead := f.PayloadOffset + 1 // envelope header plus end byte
	if l.MaxMessageSize < overhead+1 {
		return errors.Newf(ErrInvalidLimits, "max_message_size %d cannot hold frame overhead %d",
			l.MaxMessageSize, overhead)
	}
	if l.MaxPayloadSize > l.MaxMessageSize-overhead {
		return errors.Newf(ErrInvalidLimits, "max_payload_size %d exceeds max_message_size %d minus frame overhead %d",
			l.MaxPayloadSize, l.MaxMessageSize, overhead)
	}
	return nil
}
