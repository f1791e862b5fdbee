package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petitechose-audio/protocol-codegen/display"
	"github.com/petitechose-audio/protocol-codegen/loader"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
	"github.com/petitechose-audio/protocol-codegen/schema"
	"github.com/petitechose-audio/protocol-codegen/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a schema document without generating code",
	Long: `Validate loads the schema and runs the full rule set, reporting every
violation in one pass. Exit status is non-zero when any diagnostic is
produced.

Examples:

  protocol-codegen validate --schema ./examples/sensor-network/messages.yaml`,
	RunE: runValidate,
}

type validateOptions struct {
	schema string
	config string
}

var validateOpts = &validateOptions{}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateOpts.schema, "schema", "", "path to the schema document (.yaml or .json)")
	validateCmd.Flags().StringVar(&validateOpts.config, "config", "", "path to the protocol config (builtin defaults when omitted)")
	_ = validateCmd.MarkFlagRequired("schema")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := display.FromContext(ctx)
	logger := loggerFrom(ctx)

	cfg, err := loadConfig(validateOpts.config)
	if err != nil {
		d.Error("Invalid protocol configuration: %v", err)
		return err
	}

	messages, err := loader.Load(validateOpts.schema)
	if err != nil {
		d.Error("Failed to load schema: %v", err)
		return err
	}

	logger.Info().Str("cmd", "validate").Int("messages", len(messages)).Msg("running validation")

	registry := schema.NewBuiltinRegistry()
	diags := validate.New(registry, cfg.Frame, cfg.Limits).Validate(messages)
	if len(diags) > 0 {
		d.Error("Schema validation failed with %d problem(s):", len(diags))
		for _, diag := range diags {
			fmt.Fprintf(os.Stderr, "  - %s\n", diag)
		}
		return errors.Newf(errors.CommonValidation, "%d validation diagnostic(s)", len(diags))
	}

	d.Success("All %d messages validated successfully", len(messages))
	return nil
}
