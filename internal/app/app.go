// Package app implements the application layer for robuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/robuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/robuild/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// Builder runs a loaded build description.
type Builder interface {
	Build(ctx context.Context, cfg *domain.BuildConfig, opts orchestrator.BuildOptions) (*domain.BuildReport, error)
}

// LevelSetter is implemented by loggers whose verbosity can change after construction.
type LevelSetter interface {
	SetLevel(level domain.LogLevel)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	builder      Builder
	resolver     ports.InputResolver
	renderer     ports.ReportRenderer
	store        ports.ReportStore
	verifier     ports.Verifier
	logger       ports.Logger
	telemetry    ports.Telemetry
	out          io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	builder Builder,
	resolver ports.InputResolver,
	renderer ports.ReportRenderer,
	store ports.ReportStore,
	verifier ports.Verifier,
	log ports.Logger,
	tel ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		builder:      builder,
		resolver:     resolver,
		renderer:     renderer,
		store:        store,
		verifier:     verifier,
		logger:       log,
		telemetry:    tel,
		out:          os.Stdout,
	}
}

// WithOutput redirects rendered reports to w.
// This is primarily used for testing to capture output.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// SetLogLevel changes the logger verbosity when the logger supports it.
func (a *App) SetLogLevel(level domain.LogLevel) {
	if l, ok := a.logger.(LevelSetter); ok {
		l.SetLevel(level)
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Dir is where the build description is searched from.
	Dir string
	// NoReport skips persisting the report.
	NoReport bool
	// Progress records progress vertices for every entry and format.
	Progress bool
	// Hooks and Plugins are handed to the orchestrator unchanged.
	Hooks   ports.Hooks
	Plugins []any
}

// Build loads the build description, builds every entry and prints the report.
func (a *App) Build(ctx context.Context, opts BuildOptions) (err error) {
	// 1. Load the build description
	cfg, err := a.configLoader.Load(dirOrCwd(opts.Dir))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Select telemetry
	var tel ports.Telemetry = telemetry.NewNoOp()
	if opts.Progress && a.telemetry != nil {
		tel = a.telemetry
	}
	defer func() {
		if cerr := tel.Close(); cerr != nil && err == nil {
			err = zerr.Wrap(cerr, "failed to close telemetry")
		}
	}()

	// 3. Build
	report, err := a.builder.Build(ctx, cfg, orchestrator.BuildOptions{
		Hooks:     opts.Hooks,
		Plugins:   opts.Plugins,
		Telemetry: tel,
	})
	if err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}

	// 4. Report
	if err := a.renderer.Render(a.out, report); err != nil {
		return zerr.Wrap(err, "failed to render build report")
	}
	if opts.NoReport {
		return nil
	}
	if err := a.store.Put(*report); err != nil {
		return zerr.Wrap(err, "failed to store build report")
	}
	return nil
}

// ReportOptions configuration for the Report method.
type ReportOptions struct {
	Dir string
}

// Report prints the last recorded build report of the package.
// Outputs deleted since that build are reported as warnings.
func (a *App) Report(_ context.Context, opts ReportOptions) error {
	cfg, err := a.configLoader.Load(dirOrCwd(opts.Dir))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	report, err := a.store.Get(cfg.RootDir)
	if err != nil {
		return zerr.Wrap(err, "failed to read build report")
	}
	if report == nil {
		return zerr.With(zerr.Wrap(domain.ErrNoReport, "nothing to show"), "root", cfg.RootDir)
	}

	files := make([]string, len(report.Chunks))
	for i, c := range report.Chunks {
		files[i] = c.File
	}
	missing, err := a.verifier.MissingOutputs(cfg.RootDir, files)
	if err != nil {
		return zerr.Wrap(err, "failed to verify outputs")
	}
	for _, file := range missing {
		a.logger.Warn(fmt.Sprintf("%s no longer exists, run a build to refresh the report", file))
	}

	return a.renderer.Render(a.out, report)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Dir     string
	State   bool
	Outputs bool
}

// Clean removes the package state directory and entry outputs based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	cfg, err := a.configLoader.Load(dirOrCwd(options.Dir))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.State {
		remove(filepath.Join(cfg.RootDir, domain.StateDir), "build state")
	}

	if options.Outputs {
		entries, err := orchestrator.Normalize(cfg, a.resolver)
		if err != nil {
			return errors.Join(errs, err)
		}
		seen := make(map[string]bool)
		for _, e := range entries {
			if seen[e.OutDir] {
				continue
			}
			seen[e.OutDir] = true
			rel, err := filepath.Rel(cfg.RootDir, e.OutDir)
			if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				a.logger.Warn(fmt.Sprintf("refusing to remove %s, it is not inside the package", e.OutDir))
				continue
			}
			remove(e.OutDir, filepath.ToSlash(rel))
		}
	}

	return errs
}

func dirOrCwd(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
