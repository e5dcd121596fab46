package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/robuild/internal/adapters/settings"
	"go.trai.ch/robuild/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every entry of the package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.settings.Settings()
			return c.app.Build(cmd.Context(), app.BuildOptions{
				Dir:      s.Dir,
				NoReport: s.NoReport,
				Progress: s.Progress,
			})
		},
	}
	cmd.Flags().Bool(settings.KeyNoReport, false, "Do not persist the build report")
	cmd.Flags().BoolP(settings.KeyProgress, "p", false, "Record progress for every entry and format")
	return cmd
}
