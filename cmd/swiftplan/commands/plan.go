package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/swiftplan/internal/app"
)

const driverArgsUsage = "[flags] -- <driver arguments>"

func addDriverFlags(cmd *cobra.Command) {
	cmd.Flags().String("driver-mode", "", "Driver personality: swiftc (batch) or swift (interactive)")
	cmd.Flags().String("toolchain", "", "Directory searched for toolchain executables before PATH")
	cmd.Flags().String("temp-dir", "", "Directory for temporary job files")
	cmd.Flags().String("response-files", "", "When to pass arguments in response files: heuristic, always or never")
	cmd.Flags().Bool("static-target-info", false, "Derive target information without running the frontend")
}

func planOptions(cmd *cobra.Command, args []string) app.PlanOptions {
	driverMode, _ := cmd.Flags().GetString("driver-mode")
	toolchain, _ := cmd.Flags().GetString("toolchain")
	tempDir, _ := cmd.Flags().GetString("temp-dir")
	responseFiles, _ := cmd.Flags().GetString("response-files")
	static, _ := cmd.Flags().GetBool("static-target-info")

	return app.PlanOptions{
		Args:               args,
		DriverMode:         driverMode,
		ToolchainDir:       toolchain,
		TemporaryDirectory: tempDir,
		ResponseFiles:      responseFiles,
		StaticTargetInfo:   static,
		Out:                cmd.OutOrStdout(),
	}
}

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan " + driverArgsUsage,
		Short: "Print the jobs a driver command line expands to",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := planOptions(cmd, args)
			opts.JSON, _ = cmd.Flags().GetBool("json")
			opts.PrebuiltModules, _ = cmd.Flags().GetString("prebuilt-modules")
			return c.app.Plan(cmd.Context(), opts)
		},
	}
	addDriverFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the plan as JSON")
	cmd.Flags().String("prebuilt-modules", "", "Plan a prebuilt module set instead of a compilation")
	return cmd
}
