// Package commands implements the CLI commands for swiftplan.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/swiftplan/internal/app"
	"go.trai.ch/swiftplan/internal/build"
	"go.trai.ch/swiftplan/internal/core/ports"
)

// CLI represents the command line interface for swiftplan.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Plan(ctx context.Context, opts app.PlanOptions) error
	Run(ctx context.Context, opts app.RunOptions) error
	PrintTargetInfo(ctx context.Context, opts app.PlanOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// verboseLogger is implemented by loggers whose level and format can change
// after construction.
type verboseLogger interface {
	SetVerbose(verbose bool)
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app. log may be nil.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "swiftplan",
		Short:         "Plan and run Swift compilations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("verbose", false, "Log planning decisions and job command lines")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = c.configureLogger

	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newPrintTargetInfoCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogger(cmd *cobra.Command, _ []string) {
	l, ok := c.logger.(verboseLogger)
	if !ok {
		return
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	l.SetVerbose(verbose)
	l.SetJSON(jsonLogs)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
