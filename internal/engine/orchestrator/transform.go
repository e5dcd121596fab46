package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// TransformExtension is the extension of every file a transform entry compiles.
const TransformExtension = ".mjs"

// codeExtensions are compiled by transform entries. Everything else is copied.
var codeExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs"}

var declarationSuffixes = []string{".d.ts", ".d.mts", ".d.cts"}

func isCode(path string) bool {
	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	return slices.Contains(codeExtensions, filepath.Ext(path))
}

// transformEntry compiles every source file of the entry directory on its own,
// keeping the directory layout. Paths that cannot be walked, read or copied are skipped.
func (o *Orchestrator) transformEntry(ctx context.Context, bc *ports.BuildContext, entry *domain.Entry) (err error) {
	src := entry.Inputs[0].Path
	ctx, done := record(ctx, bc, entry.Name+" [transform]")
	defer func() { done(err) }()

	rewrite := o.rewriter(src)
	for path, walkErr := range o.walker.WalkFiles(src, nil) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			bc.Logger.Warn("skipping " + relSlash(bc.RootDir, path) + ": " + walkErr.Error())
			continue
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			bc.Logger.Warn("skipping " + path + ": " + err.Error())
			continue
		}
		target := filepath.Join(entry.OutDir, rel)

		if !isCode(path) {
			if err := o.copier.Copy(path, target); err != nil {
				bc.Logger.Warn("failed to copy " + relSlash(bc.RootDir, path) + ": " + err.Error())
			}
			continue
		}

		if err := o.transformFile(ctx, bc, entry, path, target, rewrite); err != nil {
			return err
		}
	}
	return nil
}

//nolint:funlen // read, transform, minify and write one file
func (o *Orchestrator) transformFile(
	ctx context.Context,
	bc *ports.BuildContext,
	entry *domain.Entry,
	path, target string,
	rewrite func(specifier, importer string) string,
) error {
	source, err := os.ReadFile(path) //nolint:gosec // Path comes from walking the entry directory
	if err != nil {
		bc.Logger.Warn("skipping " + relSlash(bc.RootDir, path) + ": " + err.Error())
		return nil
	}

	outFile := strings.TrimSuffix(target, filepath.Ext(target)) + TransformExtension
	result, err := o.transformer.Transform(ctx, path, source, ports.TransformOptions{
		Platform:      entry.Platform,
		Target:        entry.Target,
		Sourcemap:     entry.Sourcemap && !entry.Minify,
		Define:        defines(entry),
		OutFile:       outFile,
		RewriteImport: rewrite,
	})
	if err != nil {
		return transformError(err, bc.RootDir, path, source)
	}
	if len(result.Errors) > 0 {
		err := zerr.Wrap(domain.ErrTransformFailed, strings.Join(result.Errors, "\n"))
		return transformError(err, bc.RootDir, path, source)
	}

	code, sourceMap := result.Code, result.Map
	if entry.Minify {
		minified, err := o.minifier.Minify(ctx, outFile, code, ports.MinifyOptions{
			Target:    entry.Target,
			Sourcemap: entry.Sourcemap,
		})
		if err != nil {
			return transformError(err, bc.RootDir, path, source)
		}
		code, sourceMap = minified.Code, minified.Map
		if len(sourceMap) > 0 {
			code = append(code, []byte("//# sourceMappingURL="+filepath.Base(outFile)+".map\n")...)
		}
	}

	if err := writeOutput(outFile, code); err != nil {
		return err
	}
	if len(sourceMap) > 0 {
		if err := writeOutput(outFile+".map", sourceMap); err != nil {
			return err
		}
	}

	rel := relSlash(entry.OutDir, outFile)
	bc.Report.Chunks = append(bc.Report.Chunks, domain.ChunkReport{
		Entry:  strings.TrimSuffix(rel, TransformExtension),
		Format: domain.FormatESM,
		File:   relSlash(bc.RootDir, outFile),
		Size:   int64(len(code)),
	})
	return nil
}

// rewriter maps relative imports of sources below src to the compiled file
// names. Bare specifiers and files outside src keep their spelling.
func (o *Orchestrator) rewriter(src string) func(specifier, importer string) string {
	return func(specifier, importer string) string {
		if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
			return specifier
		}
		dir := filepath.Dir(importer)
		resolved, err := o.paths.Resolve(specifier, dir)
		if err != nil || !within(src, resolved) || !isCode(resolved) {
			return specifier
		}

		compiled := strings.TrimSuffix(resolved, filepath.Ext(resolved)) + TransformExtension
		rel := relSlash(dir, compiled)
		if !strings.HasPrefix(rel, "../") {
			rel = "./" + rel
		}
		return rel
	}
}

func transformError(err error, root, path string, source []byte) error {
	return zerr.With(zerr.With(err, "path", relSlash(root, path)), "source", string(source))
}

func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // Build outputs are world readable
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", path)
	}
	return nil
}
