package esbuild

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Engine       = (*Engine)(nil)
	_ ports.EngineHandle = (*Handle)(nil)
)

// Engine bundles entries with esbuild.
type Engine struct {
	logger       ports.Logger
	declarations ports.DeclarationGenerator
}

// NewEngine creates a new Engine. declarations may be nil.
func NewEngine(logger ports.Logger, declarations ports.DeclarationGenerator) *Engine {
	return &Engine{logger: logger, declarations: declarations}
}

// layout is everything about an output that changes the bundle contents.
type layout struct {
	dir          string
	entryPattern string
	chunkPattern string
	extension    string
	format       domain.Format
	sourcemap    bool
}

func layoutOf(out *domain.OutputConfig) layout {
	return layout{
		dir:          out.Dir,
		entryPattern: out.EntryPattern,
		chunkPattern: out.ChunkPattern,
		extension:    out.Extension,
		format:       out.Format,
		sourcemap:    out.Sourcemap,
	}
}

// Build bundles cfg in memory. Errors reported by esbuild fail the build here,
// before anything is written.
func (e *Engine) Build(ctx context.Context, cfg *domain.EngineConfig) (ports.EngineHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := *cfg
	snapshot.Input = maps.Clone(cfg.Input)
	h := &Handle{engine: e, cfg: &snapshot}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = cfg.Plan.Dir(filepath.Join(cfg.RootDir, domain.DefaultOutDir))
	}
	l := layout{
		dir:          outDir,
		entryPattern: cfg.Plan.EntryPattern,
		chunkPattern: domain.DefaultChunkPattern,
		extension:    cfg.Plan.Extension,
		format:       cfg.Format,
		sourcemap:    cfg.Sourcemap,
	}
	if err := h.bundle(l); err != nil {
		return nil, err
	}
	return h, nil
}

// Handle is a bundle produced by Engine.Build.
type Handle struct {
	engine *Engine
	cfg    *domain.EngineConfig
	layout layout
	result api.BuildResult
}

// Write writes the bundle. The bundle is rebuilt when out differs from the
// layout it was built for.
func (h *Handle) Write(ctx context.Context, out *domain.OutputConfig) (*domain.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l := layoutOf(out); l != h.layout {
		if err := h.bundle(l); err != nil {
			return nil, err
		}
	}

	shebang, _ := h.cfg.Directive(domain.DirectiveShebang)
	entries := make(map[string]bool)
	meta, err := parseMetafile(h.result.Metafile)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrEngineWriteFailed, err.Error()), "entry", h.cfg.Entry)
	}

	names := make(map[string]string, len(h.cfg.Input))
	for name, path := range h.cfg.Input {
		names[path] = name
	}
	written, err := chunks(meta, h.result.OutputFiles, h.cfg.RootDir, out.Dir, names)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrEngineWriteFailed, err.Error()), "entry", h.cfg.Entry)
	}
	for _, c := range written {
		if c.IsEntry {
			entries[filepath.Join(out.Dir, filepath.FromSlash(c.FileName))] = true
		}
	}

	for _, file := range h.result.OutputFiles {
		mode := os.FileMode(0o644)
		if shebang.Value != "" && entries[file.Path] {
			mode = 0o755
		}
		if err := writeFile(file.Path, file.Contents, mode); err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrEngineWriteFailed, err.Error()), "entry", h.cfg.Entry), "path", file.Path)
		}
	}

	if err := h.writeDeclarations(ctx, out, written); err != nil {
		return nil, err
	}

	return &domain.WriteResult{Chunks: written}, nil
}

func (h *Handle) bundle(l layout) error {
	options, err := h.engine.options(h.cfg, l)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrEngineBuildFailed, err.Error()), "entry", h.cfg.Entry)
	}

	result := api.Build(options)
	if len(result.Errors) > 0 {
		messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		err := zerr.Wrap(domain.ErrEngineBuildFailed, strings.TrimSpace(strings.Join(messages, "\n")))
		return zerr.With(zerr.With(err, "entry", h.cfg.Entry), "format", string(l.format))
	}
	for _, w := range api.FormatMessages(result.Warnings, api.FormatMessagesOptions{Kind: api.WarningMessage}) {
		h.engine.logger.Warn(strings.TrimSpace(w))
	}

	h.layout = l
	h.result = result
	return nil
}

func (e *Engine) options(cfg *domain.EngineConfig, l layout) (api.BuildOptions, error) {
	target, engines, err := ParseTarget(cfg.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}

	protocol := domain.NodeProtocolKeep
	if d, ok := cfg.Directive(domain.DirectiveNodeProtocol); ok {
		protocol = domain.NodeProtocol(d.Value)
	}

	options := api.BuildOptions{
		AbsWorkingDir: cfg.RootDir,
		Outdir:        l.dir,
		EntryNames:    entryNames(l),
		ChunkNames:    l.chunkPattern,
		OutExtension:  map[string]string{".js": l.extension},
		Bundle:        true,
		Splitting:     l.format == domain.FormatESM,
		Write:         false,
		Metafile:      true,
		Format:        formatOf(l.format),
		Platform:      platformOf(cfg.Platform),
		Target:        target,
		Engines:       engines,
		Sourcemap:     sourcemapOf(l.sourcemap),
		Define:        cfg.Define,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{externalPlugin(cfg.Rules, protocol)},
	}
	if l.format == domain.FormatIIFE {
		options.GlobalName = cfg.GlobalName
	}
	minify(&options, cfg.Minify)

	banner, footer := banners(cfg, l.format)
	if banner != "" {
		options.Banner = map[string]string{"js": banner}
	}
	if footer != "" {
		options.Footer = map[string]string{"js": footer}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Input)) {
		options.EntryPointsAdvanced = append(options.EntryPointsAdvanced, api.EntryPoint{
			InputPath:  cfg.Input[name],
			OutputPath: name,
		})
	}

	for _, p := range cfg.Plugins {
		switch plugin := p.(type) {
		case api.Plugin:
			options.Plugins = append(options.Plugins, plugin)
		case *api.Plugin:
			options.Plugins = append(options.Plugins, *plugin)
		default:
			e.logger.Warn("ignoring engine plugin of unsupported type")
		}
	}
	return options, nil
}

// entryNames turns "[name].ext" into esbuild's extension-less entry template.
func entryNames(l layout) string {
	pattern := strings.TrimSuffix(l.entryPattern, l.extension)
	if !strings.Contains(pattern, "[dir]") {
		pattern = "[dir]/" + pattern
	}
	return pattern
}

func (h *Handle) writeDeclarations(ctx context.Context, out *domain.OutputConfig, written []domain.Chunk) error {
	if !h.cfg.Declarations || h.engine.declarations == nil {
		return nil
	}

	decls, err := h.engine.declarations.Generate(ctx, ports.DeclarationRequest{
		RootDir: h.cfg.RootDir,
		Inputs:  h.cfg.Input,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDeclarationsUnavailable) {
			h.engine.logger.Warn("skipping declarations for entry " + h.cfg.Entry + ": " + err.Error())
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to generate declarations"), "entry", h.cfg.Entry)
	}

	for i := range written {
		c := &written[i]
		content, ok := decls[c.EntryName]
		if !c.IsEntry || !ok {
			continue
		}
		name := strings.TrimSuffix(c.FileName, out.Extension) + out.DeclarationExtension
		path := filepath.Join(out.Dir, filepath.FromSlash(name))
		if err := writeFile(path, content, 0o644); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrEngineWriteFailed, err.Error()), "entry", h.cfg.Entry), "path", path)
		}
		c.Declaration = name
	}
	return nil
}

func writeFile(path string, content []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}
	//nolint:gosec // Entry chunks with a shebang must be executable
	if err := os.WriteFile(path, content, mode); err != nil {
		return zerr.Wrap(err, "failed to write output file")
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, mode); err != nil {
		return zerr.Wrap(err, "failed to set file mode")
	}
	return nil
}
