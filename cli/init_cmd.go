package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petitechose-audio/protocol-codegen/config"
	"github.com/petitechose-audio/protocol-codegen/display"
	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new protocol project",
	Long: `Init creates a project directory holding a protocol config with the
builtin SysEx defaults and a starter schema document.

If no directory is given, "my-protocol" is created in the current
location.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// starterSchema is the schema document written into new projects.
const starterSchema = `# Schema document for protocol-codegen.
#
# Each message declares a name, a flow direction and an ordered field
# list. Reusable composite shapes go under "groups".

groups:
  reading:
    fields:
      - name: sensorId
        type: uint8
      - name: value
        type: float32

messages:
  - name: SENSOR_READING
    flow: controller_to_host
    description: Single sensor reading
    fields:
      - name: sensorId
        type: uint8
      - name: value
        type: float32
      - name: timestamp
        type: uint32

  - name: SENSOR_READING_BATCH
    flow: controller_to_host
    description: Batch of sensor readings
    fields:
      - name: readings
        group: reading
        array: 8

  - name: REQUEST_SENSOR_LIST
    flow: host_to_controller
    description: Request the sensor list
    fields: []
`

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := display.FromContext(ctx)
	logger := loggerFrom(ctx)

	targetDir := "my-protocol"
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		d.Error("Failed to resolve path: %v", err)
		return err
	}

	logger.Info().Str("cmd", "init").Str("target_dir", absPath).Msg("initializing project")

	if _, err := os.Stat(filepath.Join(absPath, "protocol.yaml")); err == nil {
		d.Error("Directory already holds a protocol.yaml")
		return errors.Newf(errors.CommonConflict, "%s is already a protocol project", targetDir)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		d.Error("Failed to create directory: %v", err)
		return err
	}

	if err := config.Save(config.Default(), filepath.Join(absPath, "protocol.yaml")); err != nil {
		d.Error("Failed to write protocol config: %v", err)
		return err
	}
	if err := os.WriteFile(filepath.Join(absPath, "messages.yaml"), []byte(starterSchema), 0644); err != nil {
		d.Error("Failed to write starter schema: %v", err)
		return err
	}

	d.Success("Initialized protocol project in %s", targetDir)
	d.Info("Next: protocol-codegen generate --schema %s/messages.yaml --config %s/protocol.yaml --output %s",
		targetDir, targetDir, targetDir)
	return nil
}
