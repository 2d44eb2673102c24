package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// widgetsCommand lists the registered widget types.
func (c *CLI) widgetsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "List available widget types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			metas := c.registry.GetAllMetadata()
			if format != formatTable {
				return writeData(cmd.OutOrStdout(), metas, format)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWidgetTypes(metas))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	return cmd
}
