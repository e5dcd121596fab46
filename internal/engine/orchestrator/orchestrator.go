// Package orchestrator drives a package build: it normalizes entries, invokes
// the engine per entry and format, and assembles the build report.
package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Services are the collaborators an Orchestrator builds with.
type Services struct {
	Engine      ports.Engine
	Transformer ports.Transformer
	Minifier    ports.Minifier
	Paths       ports.PathResolver
	Inputs      ports.InputResolver
	Walker      ports.Walker
	Cleaner     ports.Cleaner
	Copier      ports.Copier
	Renamer     ports.HashRenamer
	Manifests   ports.ManifestStore
	Hooks       ports.HookExecutor
	Sizer       ports.SizeMeasurer
	Logger      ports.Logger
}

// Orchestrator builds packages.
type Orchestrator struct {
	engine      ports.Engine
	transformer ports.Transformer
	minifier    ports.Minifier
	paths       ports.PathResolver
	inputs      ports.InputResolver
	walker      ports.Walker
	cleaner     ports.Cleaner
	copier      ports.Copier
	renamer     ports.HashRenamer
	manifests   ports.ManifestStore
	executor    ports.HookExecutor
	sizer       ports.SizeMeasurer
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(s Services) *Orchestrator {
	return &Orchestrator{
		engine:      s.Engine,
		transformer: s.Transformer,
		minifier:    s.Minifier,
		paths:       s.Paths,
		inputs:      s.Inputs,
		walker:      s.Walker,
		cleaner:     s.Cleaner,
		copier:      s.Copier,
		renamer:     s.Renamer,
		manifests:   s.Manifests,
		executor:    s.Hooks,
		sizer:       s.Sizer,
		logger:      s.Logger,
	}
}

// BuildOptions are the per-build additions of Go API callers.
type BuildOptions struct {
	// Hooks run before plugin and shell hooks of the same stage.
	Hooks ports.Hooks
	// Plugins apply to every entry.
	Plugins []any
	// Telemetry records one vertex per entry and format. Nil records nothing.
	Telemetry ports.Telemetry
}

// Build runs every entry of cfg in order and returns the build report.
// The first failing step aborts the build.
func (o *Orchestrator) Build(ctx context.Context, cfg *domain.BuildConfig, opts BuildOptions) (*domain.BuildReport, error) {
	manifest, found, err := o.readManifest(cfg.RootDir)
	if err != nil {
		return nil, err
	}

	bc := ports.NewBuildContext(cfg.RootDir, manifest, o.logger, opts.Telemetry)
	bc.Report.StartedAt = time.Now()

	hooks, enginePlugins := classifyPlugins(opts.Plugins, o.logger)
	lc := &lifecycle{
		root:     cfg.RootDir,
		chain:    append([]ports.Hooks{opts.Hooks}, hooks...),
		shell:    cfg.Hooks,
		executor: o.executor,
	}

	if err := lc.start(ctx, bc); err != nil {
		return nil, err
	}

	entries, err := Normalize(cfg, o.inputs)
	if err != nil {
		return nil, err
	}

	if err := lc.entries(ctx, entries, bc); err != nil {
		return nil, err
	}

	exports := domain.NewExportMap()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := o.buildEntry(ctx, bc, lc, entry, enginePlugins, exports); err != nil {
			return nil, zerr.With(err, "entry", entry.Name)
		}
	}

	if cfg.Exports {
		if err := o.writeExports(bc, exports, found); err != nil {
			return nil, err
		}
	}

	if err := o.measure(ctx, bc.Report); err != nil {
		return nil, err
	}
	bc.Report.FinishedAt = time.Now()

	if err := lc.end(ctx, bc); err != nil {
		return nil, err
	}
	return bc.Report, nil
}

// readManifest reports whether a manifest exists. A package without one builds
// with an empty manifest, so nothing is external by dependency.
func (o *Orchestrator) readManifest(root string) (*domain.Manifest, bool, error) {
	manifest, err := o.manifests.Read(root)
	if err != nil {
		if errors.Is(err, domain.ErrManifestNotFound) {
			o.logger.Warn("no " + domain.ManifestFile + " found in " + root + ", dependencies are bundled")
			return &domain.Manifest{}, false, nil
		}
		return nil, false, err
	}
	return manifest, true, nil
}

func (o *Orchestrator) writeExports(bc *ports.BuildContext, exports *domain.ExportMap, found bool) error {
	if exports.Len() == 0 {
		return nil
	}
	if !found {
		o.logger.Warn("skipping exports, the package has no " + domain.ManifestFile)
		return nil
	}
	if err := o.manifests.WriteExports(bc.RootDir, exports); err != nil {
		return zerr.Wrap(err, "failed to write package exports")
	}
	return nil
}

// measure fills in the gzip size of every reported file. It runs after all writes.
func (o *Orchestrator) measure(ctx context.Context, report *domain.BuildReport) error {
	if o.sizer == nil || len(report.Chunks) == 0 {
		return nil
	}

	paths := make([]string, len(report.Chunks))
	for i, c := range report.Chunks {
		paths[i] = filepath.Join(report.RootDir, filepath.FromSlash(c.File))
	}
	sizes, err := o.sizer.GzipSizes(ctx, paths)
	if err != nil {
		return zerr.Wrap(err, "failed to measure output sizes")
	}
	for i := range report.Chunks {
		report.Chunks[i].GzipSize = sizes[paths[i]]
	}
	return nil
}

// record starts a telemetry vertex when the build has telemetry.
func record(ctx context.Context, bc *ports.BuildContext, name string) (context.Context, func(error)) {
	if bc.Telemetry == nil {
		return ctx, func(error) {}
	}
	ctx, v := bc.Telemetry.Record(ctx, name)
	return ctx, v.Complete
}
