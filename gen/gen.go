// Package gen defines the contract between the core pipeline and the code
// emission backends. Emitters consume only the core's outputs — the
// message list, the allocation map and the layout IR — and render source
// text; they never recompute offsets, widths or IDs themselves.
package gen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/petitechose-audio/protocol-codegen/allocate"
	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/layout"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

// Header is the banner every generated file starts with (after the
// language-specific comment marker is applied).
const Header = "AUTO-GENERATED by protocol-codegen - DO NOT EDIT"

// Context is everything an emitter may look at.
type Context struct {
	Messages   []*schema.Message
	Allocation allocate.Allocation
	Layouts    map[string]*layout.Entry
	Config     *config.Config
	Registry   *schema.Registry
}

// Layout returns the layout entry of a message by name.
func (c *Context) Layout(message string) *layout.Entry {
	return c.Layouts[message]
}

// MessagesByID returns the messages sorted by their allocated ID, which is
// the order ID tables are rendered in.
func (c *Context) MessagesByID() []*schema.Message {
	out := make([]*schema.Message, len(c.Messages))
	copy(out, c.Messages)
	sort.SliceStable(out, func(i, j int) bool {
		return c.Allocation[out[i].Name()] < c.Allocation[out[j].Name()]
	})
	return out
}

// File is one generated source file, with a path relative to the target's
// base path.
type File struct {
	Path    string
	Content []byte
}

// Emitter renders one target language from the core contract.
type Emitter interface {
	// Target names the backend, e.g. "cpp" or "java".
	Target() string

	// Emit renders all files for the target.
	Emit(ctx *Context) ([]File, error)
}

// WriteFiles writes emitted files under the base directory, creating
// parent directories as needed.
func WriteFiles(base string, files []File) error {
	for _, f := range files {
		path := filepath.Join(base, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrapf(err, "create output directory for %s", f.Path)
		}
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return errors.Wrapf(err, "write generated file %s", f.Path)
		}
	}
	return nil
}

// PascalCase converts an UPPER_SNAKE or lower_snake name into PascalCase:
// "SENSOR_READING_SINGLE" becomes "SensorReadingSingle".
func PascalCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}
