package esbuild

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Transformer = (*Transformer)(nil)
	_ ports.Minifier    = (*Minifier)(nil)
)

// Transformer compiles single files to ES modules. Imports are never followed:
// each one is reported through RewriteImport and kept as an import.
type Transformer struct{}

// NewTransformer creates a new Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform compiles source. Diagnostics are returned in the result, not as an error.
func (t *Transformer) Transform(
	ctx context.Context,
	path string,
	source []byte,
	opts ports.TransformOptions,
) (*ports.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, engines, err := ParseTarget(opts.Target)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTransformFailed, err.Error()), "path", path)
	}

	outFile := opts.OutFile
	if outFile == "" {
		outFile = strings.TrimSuffix(path, filepath.Ext(path)) + ".mjs"
	}

	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(source),
			ResolveDir: filepath.Dir(path),
			Sourcefile: path,
			Loader:     loaderFor(path),
		},
		AbsWorkingDir: filepath.Dir(path),
		Outfile:       outFile,
		Bundle:        true,
		TreeShaking:   api.TreeShakingFalse,
		Write:         false,
		Format:        api.FormatESModule,
		Platform:      platformOf(opts.Platform),
		Target:        target,
		Engines:       engines,
		Define:        opts.Define,
		Sourcemap:     sourcemapOf(opts.Sourcemap),
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{rewritePlugin(path, opts.RewriteImport)},
	})

	out := &ports.TransformResult{}
	if len(result.Errors) > 0 {
		for _, msg := range api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage}) {
			out.Errors = append(out.Errors, strings.TrimSpace(msg))
		}
		return out, nil
	}

	for _, file := range result.OutputFiles {
		if isSourceMap(file.Path) {
			out.Map = file.Contents
		} else {
			out.Code = file.Contents
		}
	}
	return out, nil
}

// Minifier minifies JavaScript with esbuild's transform API.
type Minifier struct{}

// NewMinifier creates a new Minifier.
func NewMinifier() *Minifier {
	return &Minifier{}
}

// Minify minifies code. path is only used in diagnostics and source maps.
func (m *Minifier) Minify(ctx context.Context, path string, code []byte, opts ports.MinifyOptions) (*ports.MinifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, engines, err := ParseTarget(opts.Target)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTransformFailed, err.Error()), "path", path)
	}

	sourcemap := api.SourceMapNone
	if opts.Sourcemap {
		sourcemap = api.SourceMapExternal
	}

	result := api.Transform(string(code), api.TransformOptions{
		Loader:            api.LoaderJS,
		Format:            api.FormatESModule,
		Sourcefile:        path,
		Sourcemap:         sourcemap,
		Target:            target,
		Engines:           engines,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		err := zerr.Wrap(domain.ErrTransformFailed, strings.TrimSpace(strings.Join(messages, "\n")))
		return nil, zerr.With(err, "path", path)
	}

	return &ports.MinifyResult{Code: result.Code, Map: result.Map}, nil
}
