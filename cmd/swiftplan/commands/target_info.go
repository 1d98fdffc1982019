package commands

import "github.com/spf13/cobra"

func (c *CLI) newPrintTargetInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print-target-info " + driverArgsUsage,
		Short: "Print what the frontend reports about the target",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.PrintTargetInfo(cmd.Context(), planOptions(cmd, args))
		},
	}
	addDriverFlags(cmd)
	return cmd
}
