package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/swiftplan/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove recorded output cache keys and temporary files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			temporaries, _ := cmd.Flags().GetBool("temporaries")
			all, _ := cmd.Flags().GetBool("all")

			var opts app.CleanOptions
			switch {
			case all:
				opts.Cache = true
				opts.Temporaries = true
			case temporaries:
				opts.Temporaries = true
			default:
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("temporaries", "t", false, "Remove the temporary directory")
	cmd.Flags().BoolP("all", "a", false, "Remove the cache key store and the temporary directory")

	return cmd
}
