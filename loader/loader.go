// Package loader ingests schema documents and builds the in-memory message
// model the core operates on. Ingestion is pluggable: any Loader returning
// constructed messages can feed the pipeline, and the loaders here never
// execute user code — documents are pure data.
//
// A document declares named, reusable composite shapes under "groups" and
// the message list under "messages". A field entry is exactly one of:
//
//	{name, type[, max_length]}         primitive
//	{name, fields[, array]}            inline composite
//	{name, group[, array]}             reference to a named group
//
// Group references share shape identity, so a group that (transitively)
// references itself produces a genuinely cyclic field graph. That is the
// validator's problem to report, not the loader's to reject.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Loader turns a schema document into the ordered message list.
type Loader interface {
	// Load reads and resolves the document at path.
	Load(path string) ([]*schema.Message, error)
}

// ForFile picks a loader by file extension.
func ForFile(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return &YAMLLoader{}, nil
	case ".json":
		return &JSONLoader{}, nil
	}
	return nil, errors.Newf(ErrUnsupportedFormat, "no loader for %q (want .yaml, .yml or .json)", filepath.Ext(path))
}

// Load reads the document at path with the loader matching its extension.
func Load(path string) ([]*schema.Message, error) {
	l, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// document is the format-independent shape of a schema document. Both the
// YAML and the JSON loader decode into it before resolution.
type document struct {
	Groups   map[string]groupDoc `yaml:"groups"`
	Messages []messageDoc        `yaml:"messages"`
}

type groupDoc struct {
	Fields []fieldDoc `yaml:"fields"`
}

type messageDoc struct {
	Name        string     `yaml:"name"`
	Flow        string     `yaml:"flow"`
	Description string     `yaml:"description"`
	Fields      []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	MaxLength int        `yaml:"max_length"`
	Group     string     `yaml:"group"`
	Array     int        `yaml:"array"`
	Fields    []fieldDoc `yaml:"fields"`
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileReadFailed, err, "failed to read schema document %s", path)
	}
	return data, nil
}

// resolve builds the message list from a decoded document.
func resolve(doc *document) ([]*schema.Message, error) {
	if len(doc.Messages) == 0 {
		return nil, errors.New(ErrNoMessagesDeclared, "schema document declares no messages")
	}

	b := &builder{
		groups:   doc.Groups,
		children: make(map[string][]schema.Field),
	}

	messages := make([]*schema.Message, 0, len(doc.Messages))
	for _, md := range doc.Messages {
		flow, err := schema.ParseFlow(md.Flow)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidMessage, err, "message %q", md.Name)
		}
		fields, err := b.fields(md.Fields)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidMessage, err, "message %q", md.Name)
		}
		m, err := schema.NewMessage(md.Name, flow, md.Description, fields)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidMessage, err, "message construction failed")
		}
		messages = append(messages, m)
	}

	if err := b.attachPending(); err != nil {
		return nil, err
	}
	return messages, nil
}

// builder resolves field documents against the group table. Group children
// are memoized so every reference to a group shares one child slice, and
// references hit while their group is still being resolved are attached
// after the fact — that is what ties recursive shapes into real cycles.
type builder struct {
	groups    map[string]groupDoc
	children  map[string][]schema.Field
	resolving map[string]bool
	pending   []pendingRef
}

type pendingRef struct {
	field *schema.CompositeField
	group string
}

func (b *builder) fields(docs []fieldDoc) ([]schema.Field, error) {
	out := make([]schema.Field, 0, len(docs))
	for _, fd := range docs {
		f, err := b.field(fd)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (b *builder) field(fd fieldDoc) (schema.Field, error) {
	variants := 0
	if fd.Type != "" {
		variants++
	}
	if fd.Group != "" {
		variants++
	}
	if fd.Fields != nil {
		variants++
	}
	if variants != 1 {
		return nil, errors.Newf(ErrAmbiguousField,
			"field %q must declare exactly one of type, group or fields", fd.Name)
	}

	switch {
	case fd.Type == schema.TypeString && fd.MaxLength > 0:
		return schema.NewString(fd.Name, fd.MaxLength)

	case fd.Type != "":
		if fd.MaxLength != 0 {
			return nil, errors.Newf(ErrInvalidFieldEntry,
				"field %q: max_length is only valid on string fields", fd.Name)
		}
		return schema.NewPrimitive(fd.Name, fd.Type)

	case fd.Fields != nil:
		children, err := b.fields(fd.Fields)
		if err != nil {
			return nil, err
		}
		return b.newComposite(fd.Name, children, fd.Array)

	default:
		return b.groupRef(fd)
	}
}

func (b *builder) groupRef(fd fieldDoc) (schema.Field, error) {
	children, ready, err := b.groupChildren(fd.Group)
	if err != nil {
		return nil, err
	}
	if ready {
		return b.newComposite(fd.Name, children, fd.Array)
	}

	// The group is still being resolved above us on the stack; leave the
	// composite empty and attach the shared children once they exist.
	f, err := b.newComposite(fd.Name, nil, fd.Array)
	if err != nil {
		return nil, err
	}
	b.pending = append(b.pending, pendingRef{field: f, group: fd.Group})
	return f, nil
}

// groupChildren returns the memoized child slice of a group. ready is
// false when the group is on the current resolution path.
func (b *builder) groupChildren(name string) ([]schema.Field, bool, error) {
	if children, ok := b.children[name]; ok {
		return children, true, nil
	}
	gd, ok := b.groups[name]
	if !ok {
		return nil, false, errors.Newf(ErrUnknownGroup, "group %q not declared", name)
	}

	if b.resolving == nil {
		b.resolving = make(map[string]bool)
	}
	if b.resolving[name] {
		return nil, false, nil
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)

	children, err := b.fields(gd.Fields)
	if err != nil {
		return nil, false, errors.Wrapf(ErrInvalidFieldEntry, err, "group %q", name)
	}
	b.children[name] = children
	return children, true, nil
}

func (b *builder) attachPending() error {
	for _, p := range b.pending {
		children, ok := b.children[p.group]
		if !ok {
			return errors.Newf(ErrUnknownGroup, "group %q never finished resolving", p.group)
		}
		p.field.Attach(children)
	}
	b.pending = nil
	return nil
}

func (b *builder) newComposite(name string, children []schema.Field, capacity int) (*schema.CompositeField, error) {
	if capacity > 0 {
		return schema.NewCompositeArray(name, children, capacity)
	}
	return schema.NewComposite(name, children)
}
