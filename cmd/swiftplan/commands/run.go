package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/swiftplan/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run " + driverArgsUsage,
		Short: "Plan a driver command line and execute its jobs",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			parallelism, _ := cmd.Flags().GetInt("parallelism")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			keep, _ := cmd.Flags().GetBool("keep-temporaries")
			prebuilt, _ := cmd.Flags().GetString("prebuilt-modules")

			opts := planOptions(cmd, args)
			opts.PrebuiltModules = prebuilt
			return c.app.Run(cmd.Context(), app.RunOptions{
				PlanOptions:     opts,
				Parallelism:     parallelism,
				NoCache:         noCache,
				KeepTemporaries: keep,
			})
		},
	}
	addDriverFlags(cmd)
	cmd.Flags().IntP("parallelism", "j", 0, "Maximum number of jobs run at once (default: configuration, then CPU count)")
	cmd.Flags().BoolP("no-cache", "n", false, "Run every job even when its outputs are up to date")
	cmd.Flags().Bool("keep-temporaries", false, "Leave temporary job files in place")
	cmd.Flags().String("prebuilt-modules", "", "Run a prebuilt module set instead of a compilation")
	return cmd
}
