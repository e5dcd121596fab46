package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// buildEntry cleans the entry's output, runs every format in order and copies
// files once all formats are written.
func (o *Orchestrator) buildEntry(
	ctx context.Context,
	bc *ports.BuildContext,
	lc *lifecycle,
	entry *domain.Entry,
	plugins []any,
	exports *domain.ExportMap,
) error {
	hooks, enginePlugins := classifyPlugins(entry.Plugins, bc.Logger)
	lc = lc.with(hooks)
	enginePlugins = append(slices.Clone(plugins), enginePlugins...)

	if err := o.clean(bc, entry); err != nil {
		return err
	}

	if entry.Kind == domain.EntryKindTransform {
		if err := o.transformEntry(ctx, bc, entry); err != nil {
			return err
		}
	} else {
		rules := domain.Classify(entry.Platform, bc.Manifest, entry.External, entry.NoExternal, func(id string, err error) {
			bc.Logger.Warn("external predicate failed for " + id + ": " + err.Error())
		})
		first := len(bc.Report.Chunks)
		for _, format := range entry.Formats {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := o.buildFormat(ctx, bc, lc, entry, format, rules, enginePlugins, exports); err != nil {
				return zerr.With(err, "format", string(format))
			}
		}
		shareExports(bc.Report.Chunks[first:])
	}

	o.copyFiles(bc, entry)
	return nil
}

// clean empties the entry's output root and extra clean paths. A directory is
// cleaned at most once per build, and never the package root or anything outside it.
func (o *Orchestrator) clean(bc *ports.BuildContext, entry *domain.Entry) error {
	if !entry.Clean.Enabled {
		return nil
	}
	for _, dir := range append([]string{entry.OutDir}, entry.Clean.Paths...) {
		if !within(bc.RootDir, dir) {
			bc.Logger.Warn("refusing to clean " + dir + ", it is not inside the package")
			continue
		}
		if !bc.MarkCleaned(dir) {
			continue
		}
		bc.Logger.Debug("cleaning " + dir)
		if err := o.cleaner.Clean(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to clean output directory"), "path", dir)
		}
	}
	return nil
}

//nolint:funlen // the engine invocation is one sequence of hooks and writes
func (o *Orchestrator) buildFormat(
	ctx context.Context,
	bc *ports.BuildContext,
	lc *lifecycle,
	entry *domain.Entry,
	format domain.Format,
	rules *domain.RuleSet,
	plugins []any,
	exports *domain.ExportMap,
) (err error) {
	plan := domain.Plan(format, entry.Platform, entry.FixedExtension, entry.IsMultiFormat())
	cfg := &domain.EngineConfig{
		Entry:        entry.Name,
		Format:       format,
		Plan:         plan,
		RootDir:      bc.RootDir,
		OutDir:       plan.Dir(entry.OutDir),
		Platform:     entry.Platform,
		Input:        entry.InputMap(),
		Rules:        rules,
		Define:       defines(entry),
		Minify:       entry.Minify,
		Sourcemap:    entry.Sourcemap,
		Declarations: entry.Declarations && format == domain.FormatESM,
		Directives:   directives(entry),
		GlobalName:   entry.GlobalName,
		Target:       entry.Target,
		Plugins:      plugins,
	}

	ctx, done := record(ctx, bc, entry.Name+" ["+string(format)+"]")
	defer func() { done(err) }()

	env := map[string]string{
		domain.HookEnvEntry:  entry.Name,
		domain.HookEnvFormat: string(format),
		domain.HookEnvOutDir: cfg.OutDir,
	}
	if err := lc.beforeEngineInvoke(ctx, cfg, bc, env); err != nil {
		return err
	}

	bc.Logger.Debug("building " + entry.Name + " as " + string(cfg.Format))
	handle, err := o.engine.Build(ctx, cfg)
	if err != nil {
		return err
	}

	out := &domain.OutputConfig{
		Dir:                  cfg.OutDir,
		EntryPattern:         cfg.Plan.EntryPattern,
		ChunkPattern:         domain.DefaultChunkPattern,
		Format:               cfg.Format,
		Extension:            cfg.Plan.Extension,
		DeclarationExtension: cfg.Plan.DeclarationExtension,
		Sourcemap:            cfg.Sourcemap,
	}
	if err := lc.beforeWrite(ctx, out, handle, bc, env); err != nil {
		return err
	}

	result, err := handle.Write(ctx, out)
	if err != nil {
		return err
	}

	chunks := result.Chunks
	if entry.Hash {
		if chunks, err = o.hashEntries(out.Dir, chunks); err != nil {
			return err
		}
	}

	graph := domain.NewChunkGraph(out.Dir, entry.Platform, chunks)
	for _, c := range graph.Entries() {
		path := filepath.Join(out.Dir, filepath.FromSlash(c.FileName))
		bc.Report.Chunks = append(bc.Report.Chunks, domain.ChunkReport{
			Entry:        c.EntryName,
			Format:       out.Format,
			File:         relSlash(bc.RootDir, path),
			Size:         c.Size,
			Exports:      c.Exports,
			Dependencies: bc.Dependencies.Resolve(graph, c.ID.String()),
		})
		addExport(exports, bc.RootDir, out, c)
	}
	if v, ok := ports.VertexFromContext(ctx); ok {
		v.Log(domain.LogLevelInfo, "wrote "+strconv.Itoa(len(chunks))+" chunks to "+relSlash(bc.RootDir, out.Dir))
	}
	return nil
}

// shareExports fills the exports of rows the engine could not analyze, such as
// cjs and umd output, from another format of the same entry chunk.
func shareExports(rows []domain.ChunkReport) {
	known := make(map[string][]string)
	for _, row := range rows {
		if len(row.Exports) > 0 {
			if _, ok := known[row.Entry]; !ok {
				known[row.Entry] = row.Exports
			}
		}
	}
	for i := range rows {
		if len(rows[i].Exports) == 0 {
			if exports, ok := known[rows[i].Entry]; ok {
				rows[i].Exports = slices.Clone(exports)
			}
		}
	}
}

// defines maps env to process.env replacements and overlays the entry's defines.
func defines(entry *domain.Entry) map[string]string {
	if len(entry.Env) == 0 && len(entry.Define) == 0 {
		return nil
	}
	out := make(map[string]string, len(entry.Env)+len(entry.Define))
	for k, v := range entry.Env {
		literal, _ := json.Marshal(v)
		out["process.env."+k] = string(literal)
	}
	for k, v := range entry.Define {
		out[k] = v
	}
	return out
}

// directives lists the code mutations of an entry in application order.
func directives(entry *domain.Entry) []domain.Directive {
	var out []domain.Directive
	if entry.Shebang != "" {
		out = append(out, domain.Directive{Kind: domain.DirectiveShebang, Value: entry.Shebang})
	}
	if entry.NodeProtocol != domain.NodeProtocolKeep {
		out = append(out, domain.Directive{Kind: domain.DirectiveNodeProtocol, Value: string(entry.NodeProtocol)})
	}
	if entry.Banner != "" {
		out = append(out, domain.Directive{Kind: domain.DirectiveBanner, Value: entry.Banner})
	}
	if entry.Footer != "" {
		out = append(out, domain.Directive{Kind: domain.DirectiveFooter, Value: entry.Footer})
	}
	return out
}

// hashEntries renames entry chunks after their content. The declaration and
// source map of a chunk get the same digest as the chunk itself.
func (o *Orchestrator) hashEntries(dir string, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := slices.Clone(chunks)
	for i := range out {
		c := &out[i]
		if !c.IsEntry {
			continue
		}

		path := filepath.Join(dir, filepath.FromSlash(c.FileName))
		content, err := os.ReadFile(path) //nolint:gosec // Path was just written by the engine
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read chunk"), "path", path)
		}
		hashed, err := o.renamer.RenameWithHash(path, content)
		if err != nil {
			return nil, err
		}
		if hashed == path {
			continue
		}
		c.FileName = relSlash(dir, hashed)

		if c.Declaration != "" {
			decl, err := o.renamer.RenameWithHash(filepath.Join(dir, filepath.FromSlash(c.Declaration)), content)
			if err != nil {
				return nil, err
			}
			c.Declaration = relSlash(dir, decl)
		}

		size, err := o.hashSourceMap(path, hashed, content)
		if err != nil {
			return nil, err
		}
		if size > 0 {
			c.Size = size
		}
	}
	return out, nil
}

// hashSourceMap renames the map of a hashed chunk and points the chunk at it.
// It returns the new chunk size, or zero when the chunk has no map.
func (o *Orchestrator) hashSourceMap(original, hashed string, content []byte) (int64, error) {
	mapPath := original + ".map"
	if _, err := os.Stat(mapPath); err != nil {
		return 0, nil //nolint:nilerr // No source map was written
	}
	renamed, err := o.renamer.RenameWithHash(mapPath, content)
	if err != nil {
		return 0, err
	}

	oldRef := []byte("sourceMappingURL=" + filepath.Base(mapPath))
	newRef := []byte("sourceMappingURL=" + filepath.Base(renamed))
	code := bytes.Replace(content, oldRef, newRef, 1)
	info, err := os.Stat(hashed)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat chunk"), "path", hashed)
	}
	if err := os.WriteFile(hashed, code, info.Mode().Perm()); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to update source map reference"), "path", hashed)
	}
	return int64(len(code)), nil
}

// addExport records esm and cjs entry chunks in the package exports.
func addExport(exports *domain.ExportMap, root string, out *domain.OutputConfig, c *domain.Chunk) {
	if c.EntryName == "" {
		return
	}
	path := "./" + relSlash(root, filepath.Join(out.Dir, filepath.FromSlash(c.FileName)))
	switch out.Format {
	case domain.FormatESM:
		t := exports.Target(domain.ExportKey(c.EntryName))
		t.Import = path
		if c.Declaration != "" {
			t.Types = "./" + relSlash(root, filepath.Join(out.Dir, filepath.FromSlash(c.Declaration)))
		}
	case domain.FormatCJS:
		exports.Target(domain.ExportKey(c.EntryName)).Require = path
	case domain.FormatIIFE, domain.FormatUMD:
	}
}

// copyFiles runs the entry's copy rules. A failing rule is reported and skipped.
func (o *Orchestrator) copyFiles(bc *ports.BuildContext, entry *domain.Entry) {
	for _, rule := range entry.Copy {
		if err := o.copier.Copy(rule.From, rule.To); err != nil {
			bc.Logger.Warn("failed to copy " + relSlash(bc.RootDir, rule.From) + ": " + err.Error())
		}
	}
}

func relSlash(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
