package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/robuild/internal/app"
)

func (c *CLI) newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the report of the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Report(cmd.Context(), app.ReportOptions{
				Dir: c.settings.Settings().Dir,
			})
		},
	}
}
