package loader

import (
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
	"github.com/tidwall/gjson"
)

// JSONLoader loads schema documents written in JSON. The document shape is
// identical to the YAML format.
type JSONLoader struct{}

func (l *JSONLoader) Load(path string) ([]*schema.Message, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadBytes(data)
}

// LoadBytes decodes and resolves an in-memory JSON document.
func (l *JSONLoader) LoadBytes(data []byte) ([]*schema.Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(ErrParseFailed, "failed to parse JSON schema document")
	}
	root := gjson.ParseBytes(data)

	doc := document{}
	if groups := root.Get("groups"); groups.Exists() {
		doc.Groups = make(map[string]groupDoc)
		groups.ForEach(func(key, value gjson.Result) bool {
			doc.Groups[key.String()] = groupDoc{Fields: jsonFields(value.Get("fields"))}
			return true
		})
	}
	for _, msg := range root.Get("messages").Array() {
		doc.Messages = append(doc.Messages, messageDoc{
			Name:        msg.Get("name").String(),
			Flow:        msg.Get("flow").String(),
			Description: msg.Get("description").String(),
			Fields:      jsonFields(msg.Get("fields")),
		})
	}
	return resolve(&doc)
}

func jsonFields(result gjson.Result) []fieldDoc {
	if !result.Exists() {
		return nil
	}
	var out []fieldDoc
	for _, f := range result.Array() {
		fd := fieldDoc{
			Name:      f.Get("name").String(),
			Type:      f.Get("type").String(),
			MaxLength: int(f.Get("max_length").Int()),
			Group:     f.Get("group").String(),
			Array:     int(f.Get("array").Int()),
		}
		if nested := f.Get("fields"); nested.Exists() {
			fd.Fields = jsonFields(nested)
			if fd.Fields == nil {
				fd.Fields = []fieldDoc{}
			}
		}
		out = append(out, fd)
	}
	return out
}
