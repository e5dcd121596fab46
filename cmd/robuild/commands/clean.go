package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/robuild/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build state and entry outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, _ := cmd.Flags().GetBool("state")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{
				Dir:     c.settings.Settings().Dir,
				State:   false,
				Outputs: false,
			}

			switch {
			case all:
				opts.State = true
				opts.Outputs = true
			case state:
				opts.State = true
			default:
				// Default behavior: remove entry outputs
				opts.Outputs = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("state", "s", false, "Remove the stored build report only")
	cmd.Flags().BoolP("all", "a", false, "Remove the build state and entry outputs")

	return cmd
}
