// Package display renders user-facing CLI output. Commands talk to a
// Display carried in the context, so tests can swap in a silent one;
// logging stays on zerolog and is separate from this surface.
package display

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
)

type contextKey struct{}

// Display is the user-facing output surface of the CLI.
type Display interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})

	// Table renders a header row plus data rows.
	Table(header []string, rows [][]string)
}

// WithDisplay stores a display in the context.
func WithDisplay(ctx context.Context, d Display) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext returns the context's display, or a terminal display when
// none was set.
func FromContext(ctx context.Context) Display {
	if d, ok := ctx.Value(contextKey{}).(Display); ok {
		return d
	}
	return NewTerminal()
}

// Terminal renders through pterm.
type Terminal struct{}

// NewTerminal creates the standard terminal display.
func NewTerminal() *Terminal { return &Terminal{} }

func (t *Terminal) Info(format string, args ...interface{}) {
	pterm.Info.Println(fmt.Sprintf(format, args...))
}

func (t *Terminal) Success(format string, args ...interface{}) {
	pterm.Success.Println(fmt.Sprintf(format, args...))
}

func (t *Terminal) Warning(format string, args ...interface{}) {
	pterm.Warning.Println(fmt.Sprintf(format, args...))
}

func (t *Terminal) Error(format string, args ...interface{}) {
	pterm.Error.Println(fmt.Sprintf(format, args...))
}

func (t *Terminal) Table(header []string, rows [][]string) {
	data := pterm.TableData{header}
	data = append(data, rows...)
	// Rendering to a terminal cannot meaningfully fail; ignore the error
	// like pterm's own examples do.
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// Quiet drops all output. Used by tests and --quiet runs.
type Quiet struct{}

func NewQuiet() *Quiet { return &Quiet{} }

func (q *Quiet) Info(format string, args ...interface{})    {}
func (q *Quiet) Success(format string, args ...interface{}) {}
func (q *Quiet) Warning(format string, args ...interface{}) {}
func (q *Quiet) Error(format string, args ...interface{})   {}
func (q *Quiet) Table(header []string, rows [][]string)     {}
