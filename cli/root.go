package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type contextKey string

const loggerKey contextKey = "logger"

var rootCmd = &cobra.Command{
	Use:   "protocol-codegen",
	Short: "Generate type-safe SysEx protocol code from message definitions",
	Long: `protocol-codegen compiles a declarative schema of request/response
messages into consistent encoder/decoder code for multiple target
languages, all sharing one authoritative wire layout.

The schema is plain data (YAML or JSON); the tool validates it, allocates
message IDs by flow direction and resolves exact byte offsets inside the
SysEx frame before any code is emitted.`,
	Version: "1.0.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with a context carrying the
// logger and display used by all subcommands.
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// WithLogger stores the logger in the context for subcommands.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func loggerFrom(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
