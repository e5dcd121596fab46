package shell

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// CompilerName is the TypeScript compiler executable.
const CompilerName = "tsc"

var _ ports.DeclarationGenerator = (*DeclarationGenerator)(nil)

// declarationExtensions maps a source extension to the one tsc emits.
var declarationExtensions = map[string]string{
	".ts":  ".d.ts",
	".tsx": ".d.ts",
	".mts": ".d.mts",
	".cts": ".d.cts",
}

// DeclarationGenerator emits declarations by running tsc into a scratch directory.
type DeclarationGenerator struct {
	logger ports.Logger
}

// NewDeclarationGenerator creates a new DeclarationGenerator.
func NewDeclarationGenerator(logger ports.Logger) *DeclarationGenerator {
	return &DeclarationGenerator{logger: logger}
}

// Generate compiles the TypeScript inputs of req and returns one declaration per
// distribution name. Inputs that are not TypeScript are skipped.
func (g *DeclarationGenerator) Generate(ctx context.Context, req ports.DeclarationRequest) (map[string][]byte, error) {
	sources := make(map[string]string, len(req.Inputs))
	for name, path := range req.Inputs {
		if _, ok := declarationExtensions[filepath.Ext(path)]; ok {
			sources[name] = path
		}
	}
	if len(sources) == 0 {
		return map[string][]byte{}, nil
	}

	compiler, err := FindCompiler(req.RootDir)
	if err != nil {
		return nil, err
	}

	outDir, err := os.MkdirTemp("", "robuild-dts-*")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create declaration directory")
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	args := []string{
		"--declaration",
		"--emitDeclarationOnly",
		"--skipLibCheck",
		"--rootDir", req.RootDir,
		"--outDir", outDir,
	}
	for _, name := range slices.Sorted(maps.Keys(sources)) {
		args = append(args, sources[name])
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, compiler, args...) //nolint:gosec // compiler path is resolved from the package
	cmd.Dir = req.RootDir
	cmd.Stdout = &output
	cmd.Stderr = &output
	g.logger.Debug("generating declarations with " + compiler)
	if err := cmd.Run(); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "declaration generation failed"), "compiler", compiler)
		return nil, zerr.With(wrapped, "output", strings.TrimSpace(output.String()))
	}

	result := make(map[string][]byte, len(sources))
	for name, path := range sources {
		rel, err := filepath.Rel(req.RootDir, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize input"), "path", path)
		}
		ext := filepath.Ext(rel)
		declPath := filepath.Join(outDir, strings.TrimSuffix(rel, ext)+declarationExtensions[ext])
		content, err := os.ReadFile(declPath) //nolint:gosec // path is inside the scratch directory
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				g.logger.Warn("no declaration emitted for " + rel)
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to read declaration"), "path", declPath)
		}
		result[name] = content
	}
	return result, nil
}

// FindCompiler looks for tsc in node_modules/.bin of root and its parents,
// then on PATH.
func FindCompiler(root string) (string, error) {
	var dirs []string
	for dir := root; ; dir = filepath.Dir(dir) {
		dirs = append(dirs, filepath.Join(dir, "node_modules", ".bin"))
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	path, err := searchPath(CompilerName, dirs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrDeclarationsUnavailable, "typescript compiler not found"), "root", root)
	}
	return path, nil
}
