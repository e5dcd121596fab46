package ports

import (
	"context"

	"go.trai.ch/robuild/internal/core/domain"
)

// HookExecutor runs shell hooks declared in the build description.
//
//go:generate go run go.uber.org/mock/mockgen -source=hooks.go -destination=mocks/mock_hooks.go -package=mocks
type HookExecutor interface {
	Execute(ctx context.Context, stage domain.HookStage, commands []string, env map[string]string) error
}

// Hooks are the lifecycle callbacks of one build. Nil callbacks are skipped.
type Hooks struct {
	Start              func(ctx context.Context, bc *BuildContext) error
	Entries            func(ctx context.Context, entries []*domain.Entry, bc *BuildContext) error
	BeforeEngineInvoke func(ctx context.Context, cfg *domain.EngineConfig, bc *BuildContext) error
	BeforeWrite        func(ctx context.Context, out *domain.OutputConfig, handle EngineHandle, bc *BuildContext) error
	End                func(ctx context.Context, bc *BuildContext) error
}

// HooksProvider is a plugin contributing lifecycle hooks.
type HooksProvider interface {
	Hooks() Hooks
}

// EnginePluginProvider is a plugin contributing a native engine plugin.
type EnginePluginProvider interface {
	EnginePlugin() any
}

// BuildContext is the state shared by every step of one build.
type BuildContext struct {
	RootDir      string
	Manifest     *domain.Manifest
	Logger       Logger
	Telemetry    Telemetry
	Dependencies *domain.DependencyResolver
	Report       *domain.BuildReport

	cleaned map[string]bool
}

// NewBuildContext creates the context of a build rooted at rootDir.
func NewBuildContext(rootDir string, manifest *domain.Manifest, logger Logger, telemetry Telemetry) *BuildContext {
	return &BuildContext{
		RootDir:      rootDir,
		Manifest:     manifest,
		Logger:       logger,
		Telemetry:    telemetry,
		Dependencies: domain.NewDependencyResolver(),
		Report:       &domain.BuildReport{RootDir: rootDir, Package: manifest.Name},
		cleaned:      make(map[string]bool),
	}
}

// MarkCleaned records dir as cleaned and reports whether it was not cleaned before.
func (c *BuildContext) MarkCleaned(dir string) bool {
	if c.cleaned[dir] {
		return false
	}
	c.cleaned[dir] = true
	return true
}
