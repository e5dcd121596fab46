// Package commands implements the CLI commands for the robuild build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/robuild/internal/adapters/settings"
	"go.trai.ch/robuild/internal/app"
	"go.trai.ch/robuild/internal/build"
	"go.trai.ch/robuild/internal/core/domain"
)

// CLI represents the command line interface for robuild.
type CLI struct {
	app      Application
	settings *settings.Resolver
	rootCmd  *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Report(ctx context.Context, opts app.ReportOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	SetLogLevel(level domain.LogLevel)
}

// New creates a new CLI instance with the given app and settings.
func New(a Application, s *settings.Resolver) *CLI {
	rootCmd := &cobra.Command{
		Use:           "robuild",
		Short:         "A zero-config bundler for TypeScript and JavaScript packages",
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

	rootCmd.PersistentFlags().String(settings.KeyLogLevel, "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP(settings.KeyDir, "C", ".", "Directory to search the build description from")

	c := &CLI{
		app:      a,
		settings: s,
		rootCmd:  rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := c.settings.BindFlags(cmd.Flags()); err != nil {
			return err
		}
		c.app.SetLogLevel(c.settings.Settings().LogLevel)
		return nil
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newReportCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
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
