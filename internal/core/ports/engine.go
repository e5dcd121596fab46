// Package ports defines the core interfaces for the application.
//
// Implementations report domain sentinels wrapped with zerr.Wrap, never bare.
// Callers attach metadata with zerr.With, which copies a bare *zerr.Error and
// breaks errors.Is against the sentinel.
package ports

import (
	"context"

	"go.trai.ch/robuild/internal/core/domain"
)

// Engine is the external bundling engine.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type Engine interface {
	// Build prepares a bundle for cfg. Nothing is written until the handle's Write is called.
	// Rejected builds wrap domain.ErrEngineBuildFailed.
	Build(ctx context.Context, cfg *domain.EngineConfig) (EngineHandle, error)
}

// EngineHandle is a prepared bundle.
type EngineHandle interface {
	// Write emits the bundle according to out and returns the written chunks.
	// Failed writes wrap domain.ErrEngineWriteFailed.
	Write(ctx context.Context, out *domain.OutputConfig) (*domain.WriteResult, error)
}

// TransformOptions configures the per-file transform service.
type TransformOptions struct {
	Platform  domain.Platform
	Target    string
	Sourcemap bool
	Define    map[string]string
	// OutFile is where the result will be written. Source map paths are relative to it.
	OutFile string
	// RewriteImport maps every import specifier found in the file to the one written out.
	RewriteImport func(specifier, importer string) string
}

// TransformResult is the output of a single file transform.
type TransformResult struct {
	Code []byte
	Map  []byte
	// Errors holds engine diagnostics. A non-empty list fails the build.
	Errors []string
}

// Transformer transforms a single TypeScript or JavaScript file without bundling.
type Transformer interface {
	Transform(ctx context.Context, path string, source []byte, opts TransformOptions) (*TransformResult, error)
}

// MinifyOptions configures the minify service.
type MinifyOptions struct {
	Target    string
	Sourcemap bool
}

// MinifyResult is the output of the minify service.
type MinifyResult struct {
	Code []byte
	Map  []byte
}

// Minifier minifies JavaScript code.
type Minifier interface {
	Minify(ctx context.Context, path string, code []byte, opts MinifyOptions) (*MinifyResult, error)
}

// DeclarationRequest asks for type declarations of a set of inputs.
type DeclarationRequest struct {
	RootDir string
	// Inputs maps distribution names to absolute source paths.
	Inputs map[string]string
}

// DeclarationGenerator emits TypeScript declarations.
type DeclarationGenerator interface {
	// Generate returns declaration contents keyed by distribution name.
	Generate(ctx context.Context, req DeclarationRequest) (map[string][]byte, error)
}
