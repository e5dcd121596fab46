package orchestrator_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/fs"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/robuild/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func transformConfig(root string) *domain.BuildConfig {
	return &domain.BuildConfig{
		RootDir: root,
		Entries: []domain.RawEntry{{Shorthand: "src/runtime/:dist/runtime"}},
	}
}

func TestOrchestrator_Build_TransformEntry(t *testing.T) {
	o, m, root := setupOrchestrator(t)
	m.expectManifest(root)
	writeFiles(t, root,
		"src/runtime/index.ts",
		"src/runtime/util.ts",
		"src/runtime/data.json",
		"src/runtime/types.d.ts",
		"src/shared.ts",
	)

	runtime := filepath.Join(root, "src", "runtime")
	m.transformer.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, path string, _ []byte, opts ports.TransformOptions) (*ports.TransformResult, error) {
			if filepath.Base(path) == "index.ts" {
				assert.Equal(t, filepath.Join(root, "dist", "runtime", "index.mjs"), opts.OutFile)
				assert.Equal(t, "./util.mjs", opts.RewriteImport("./util", path))
				assert.Equal(t, "./util.mjs", opts.RewriteImport("./util.js", path))
				assert.Equal(t, "../shared", opts.RewriteImport("../shared", path))
				assert.Equal(t, "lodash", opts.RewriteImport("lodash", path))
				assert.Equal(t, "./missing", opts.RewriteImport("./missing", path))
			}
			return &ports.TransformResult{Code: []byte("// " + filepath.Base(path) + "\n")}, nil
		}).Times(2)

	report, err := o.Build(context.Background(), transformConfig(root), orchestrator.BuildOptions{})
	require.NoError(t, err)

	out := filepath.Join(root, "dist", "runtime")
	assert.FileExists(t, filepath.Join(out, "index.mjs"))
	assert.FileExists(t, filepath.Join(out, "util.mjs"))
	assert.FileExists(t, filepath.Join(out, "data.json"))
	assert.FileExists(t, filepath.Join(out, "types.d.ts"))
	assert.NoFileExists(t, filepath.Join(out, "index.ts"))

	require.Len(t, report.Chunks, 2)
	assert.Equal(t, domain.ChunkReport{
		Entry:    "index",
		Format:   domain.FormatESM,
		File:     "dist/runtime/index.mjs",
		Size:     int64(len("// index.ts\n")),
		GzipSize: 7,
	}, report.Chunks[0])
	assert.Equal(t, "dist/runtime/util.mjs", report.Chunks[1].File)
	assert.DirExists(t, runtime)
}

func TestOrchestrator_Build_TransformMinify(t *testing.T) {
	o, m, root := setupOrchestrator(t)
	m.expectManifest(root)
	writeFiles(t, root, "src/runtime/index.ts")

	minify := true
	sourcemap := true
	cfg := transformConfig(root)
	cfg.Entries = []domain.RawEntry{{
		Kind:      domain.EntryKindTransform,
		Input:     domain.InputSpec{Paths: []string{"src/runtime"}},
		OutDir:    "dist/runtime",
		Minify:    &minify,
		Sourcemap: &sourcemap,
	}}

	m.transformer.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ []byte, opts ports.TransformOptions) (*ports.TransformResult, error) {
			assert.False(t, opts.Sourcemap)
			return &ports.TransformResult{Code: []byte("export const value = 1;\n")}, nil
		})
	m.minifier.EXPECT().Minify(gomock.Any(), gomock.Any(), gomock.Any(), ports.MinifyOptions{Sourcemap: true}).
		Return(&ports.MinifyResult{Code: []byte("export const value=1;\n"), Map: []byte("{}")}, nil)

	_, err := o.Build(context.Background(), cfg, orchestrator.BuildOptions{})
	require.NoError(t, err)

	out := filepath.Join(root, "dist", "runtime")
	code, err := os.ReadFile(filepath.Join(out, "index.mjs"))
	require.NoError(t, err)
	assert.Equal(t, "export const value=1;\n//# sourceMappingURL=index.mjs.map\n", string(code))
	assert.FileExists(t, filepath.Join(out, "index.mjs.map"))
}

func TestOrchestrator_Build_TransformErrors(t *testing.T) {
	o, m, root := setupOrchestrator(t)
	m.expectManifest(root)
	writeFiles(t, root, "src/runtime/index.ts")

	m.transformer.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.TransformResult{Errors: []string{"Unexpected token"}}, nil)

	_, err := o.Build(context.Background(), transformConfig(root), orchestrator.BuildOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransformFailed))
	assert.Contains(t, err.Error(), "Unexpected token")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "src/runtime/index.ts", meta["path"])
	assert.Equal(t, "export default 1;\n", meta["source"])
	assert.Equal(t, "src/runtime/", meta["entry"])
}

func TestOrchestrator_Build_TransformInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.RawEntry
		want  error
	}{
		{
			name:  "missing directory",
			entry: domain.RawEntry{Shorthand: "src/nope/:dist/rt"},
			want:  domain.ErrInputNotFound,
		},
		{
			name: "file",
			entry: domain.RawEntry{
				Kind:   domain.EntryKindTransform,
				Input:  domain.InputSpec{Paths: []string{"src/index.ts"}},
				OutDir: "dist",
			},
			want: domain.ErrInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, m, root := setupOrchestrator(t)
			m.expectManifest(root)

			cfg := &domain.BuildConfig{RootDir: root, Entries: []domain.RawEntry{tt.entry}}
			_, err := o.Build(context.Background(), cfg, orchestrator.BuildOptions{})
			require.ErrorIs(t, err, tt.want)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.NotEmpty(t, zErr.Metadata()["path"])
			assert.NoFileExists(t, filepath.Join(root, "dist.mjs"))
			assert.NoDirExists(t, filepath.Join(root, "dist"))
		})
	}
}

// brokenWalker reports one unreadable path before walking the real tree.
type brokenWalker struct {
	ports.Walker
	broken string
}

func (w brokenWalker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !yield(filepath.Join(root, w.broken), errors.New("permission denied")) {
			return
		}
		for path, err := range w.Walker.WalkFiles(root, ignores) {
			if !yield(path, err) {
				return
			}
		}
	}
}

func TestOrchestrator_Build_TransformWalkFailure(t *testing.T) {
	o, m, root := setupOrchestratorWithWalker(t, brokenWalker{Walker: fs.NewWalker(), broken: "private"})
	m.expectManifest(root)
	writeFiles(t, root, "src/runtime/index.ts", "src/runtime/util.ts")

	m.transformer.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.TransformResult{Code: []byte("export {};\n")}, nil).Times(2)

	report, err := o.Build(context.Background(), transformConfig(root), orchestrator.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"skipping src/runtime/private: permission denied"}, m.warnings)
	require.Len(t, report.Chunks, 2)
	assert.FileExists(t, filepath.Join(root, "dist", "runtime", "index.mjs"))
	assert.FileExists(t, filepath.Join(root, "dist", "runtime", "util.mjs"))
}
