package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petitechose-audio/protocol-codegen/display"
	"github.com/petitechose-audio/protocol-codegen/schema"
)

var listTypesCmd = &cobra.Command{
	Use:   "list-types",
	Short: "List the builtin wire types",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := display.FromContext(cmd.Context())

		registry := schema.NewBuiltinRegistry()
		rows := make([][]string, 0, registry.Len())
		for _, name := range registry.Names() {
			desc, err := registry.Lookup(name)
			if err != nil {
				return err
			}
			width := fmt.Sprintf("%d", desc.Width)
			if desc.IsVariableWidth() {
				width = "limit-bound"
			}
			rows = append(rows, []string{desc.Name, width, string(desc.Category)})
		}
		d.Table([]string{"Type", "Width (bytes)", "Category"}, rows)
		return nil
	},
}

var listGeneratorsCmd = &cobra.Command{
	Use:   "list-generators",
	Short: "List the available code emission targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := display.FromContext(cmd.Context())
		d.Table([]string{"Target", "Output"}, [][]string{
			{"cpp", "C++ headers for embedded controllers and native apps"},
			{"java", "Java classes for hosts and Android"},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listTypesCmd)
	rootCmd.AddCommand(listGeneratorsCmd)
}
