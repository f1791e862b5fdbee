package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/display"
	"github.com/petitechose-audio/protocol-codegen/gen"
	"github.com/petitechose-audio/protocol-codegen/gen/gencpp"
	"github.com/petitechose-audio/protocol-codegen/gen/genjava"
	"github.com/petitechose-audio/protocol-codegen/loader"
	"github.com/petitechose-audio/protocol-codegen/pipeline"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate protocol code from a schema document",
	Long: `Generate validates the schema, allocates message IDs, resolves the
wire layout and emits code for every requested target.

Examples:

  protocol-codegen generate \
      --schema ./examples/sensor-network/messages.yaml \
      --config ./examples/sensor-network/protocol.yaml \
      --output ./examples/sensor-network`,
	RunE: runGenerate,
}

type generateOptions struct {
	schema  string
	config  string
	output  string
	targets string
}

var generateOpts = &generateOptions{}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateOpts.schema, "schema", "", "path to the schema document (.yaml or .json)")
	generateCmd.Flags().StringVar(&generateOpts.config, "config", "", "path to the protocol config (builtin defaults when omitted)")
	generateCmd.Flags().StringVar(&generateOpts.output, "output", ".", "base output directory")
	generateCmd.Flags().StringVar(&generateOpts.targets, "targets", "cpp,java", "comma-separated emission targets")
	_ = generateCmd.MarkFlagRequired("schema")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := display.FromContext(ctx)
	logger := loggerFrom(ctx)

	cfg, err := loadConfig(generateOpts.config)
	if err != nil {
		d.Error("Invalid protocol configuration: %v", err)
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		d.Info("Manufacturer ID: 0x%02X", cfg.Frame.ManufacturerID)
		d.Info("Device ID: 0x%02X", cfg.Frame.DeviceID)
		d.Info("Output base: %s", generateOpts.output)
	}

	messages, err := loader.Load(generateOpts.schema)
	if err != nil {
		d.Error("Failed to load schema: %v", err)
		return err
	}
	d.Info("Loaded %d messages from %s", len(messages), generateOpts.schema)

	res, err := pipeline.Run(cfg, messages, logger)
	if err != nil {
		if res != nil && len(res.Diagnostics) > 0 {
			reportDiagnostics(res, d)
		} else {
			d.Error("Generation failed: %v", err)
		}
		return err
	}

	emitters, err := selectEmitters(generateOpts.targets)
	if err != nil {
		d.Error("%v", err)
		return err
	}

	written, err := pipeline.Emit(res, cfg, generateOpts.output, emitters, logger)
	if err != nil {
		d.Error("Code emission failed: %v", err)
		return err
	}

	rows := make([][]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		rows = append(rows, []string{
			m.Name(),
			fmt.Sprintf("0x%02X", res.Allocation[m.Name()]),
			string(m.Flow()),
			fmt.Sprintf("%d", res.Layouts[m.Name()].PayloadSize),
		})
	}
	d.Table([]string{"Message", "ID", "Flow", "Payload"}, rows)
	d.Success("Generated %d files for %d messages (run %s)", len(written), len(res.Messages), res.RunID)
	return nil
}

// reportDiagnostics prints every collected violation to stderr so one run
// shows all problems.
func reportDiagnostics(res *pipeline.Result, d display.Display) {
	d.Error("Schema validation failed with %d problem(s):", len(res.Diagnostics))
	for _, diag := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "  - %s\n", diag)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(path)
}

func selectEmitters(targets string) ([]gen.Emitter, error) {
	var out []gen.Emitter
	for _, t := range strings.Split(targets, ",") {
		switch strings.TrimSpace(strings.ToLower(t)) {
		case "cpp":
			out = append(out, gencpp.New())
		case "java":
			out = append(out, genjava.New())
		case "":
		default:
			return nil, errors.Newf(errors.CommonUnsupported, "unknown target %q (available: cpp, java)", t)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.CommonInvalidInput, "no emission targets selected")
	}
	return out, nil
}
