package loader

import (
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
	"gopkg.in/yaml.v3"
)

// YAMLLoader loads schema documents written in YAML.
type YAMLLoader struct{}

func (l *YAMLLoader) Load(path string) ([]*schema.Message, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadBytes(data)
}

// LoadBytes decodes and resolves an in-memory YAML document.
func (l *YAMLLoader) LoadBytes(data []byte) ([]*schema.Message, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrParseFailed, err, "failed to parse YAML schema document")
	}
	return resolve(&doc)
}
