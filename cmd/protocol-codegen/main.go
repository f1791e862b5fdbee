package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/petitechose-audio/protocol-codegen/cli"
	"github.com/petitechose-audio/protocol-codegen/display"
)

func main() {
	logger := setupLogger()

	ctx := context.Background()
	ctx = display.WithDisplay(ctx, display.NewTerminal())
	ctx = cli.WithLogger(ctx, logger)

	if err := cli.ExecuteWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setupLogger builds the stderr logger. The default level is warn so
// normal runs stay quiet; PROTOCOL_CODEGEN_DEBUG=1 turns on everything.
func setupLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("PROTOCOL_CODEGEN_DEBUG") != "" {
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("app", "protocol-codegen").
		Logger()
}
