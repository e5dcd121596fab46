package fs_test

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func collectFiles(t *testing.T, walker *fs.Walker, root string, ignores []string) ([]string, []error) {
	t.Helper()
	var (
		files []string
		errs  []error
	)
	for path, err := range walker.WalkFiles(root, ignores) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, path)
	}
	return files, errs
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "node_modules", "x", "index.js"), "x")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored")
	writeFile(t, filepath.Join(tmpDir, "src", "main.ts"), "export {}")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	files, errs := collectFiles(t, fs.NewWalker(), tmpDir, []string{"ignored"})
	assert.Empty(t, errs)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "README.md"),
		filepath.Join(tmpDir, "src", "main.ts"),
	}, files)
}

func TestWalker_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a"), "a")
	writeFile(t, filepath.Join(tmpDir, "b"), "b")

	var seen []string
	for path := range fs.NewWalker().WalkFiles(tmpDir, nil) {
		seen = append(seen, path)
		break
	}
	assert.Len(t, seen, 1)
}

func TestWalker_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	files, errs := collectFiles(t, fs.NewWalker(), missing, nil)
	assert.Empty(t, files)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], iofs.ErrNotExist))
}

func TestWalker_UnreadableDirectoryIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a", "index.ts"), "a")
	writeFile(t, filepath.Join(tmpDir, "b", "secret.ts"), "b")
	writeFile(t, filepath.Join(tmpDir, "c", "index.ts"), "c")
	locked := filepath.Join(tmpDir, "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	files, errs := collectFiles(t, fs.NewWalker(), tmpDir, nil)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a", "index.ts"),
		filepath.Join(tmpDir, "c", "index.ts"),
	}, files)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failed to walk directory")
}

func TestCleaner_Clean(t *testing.T) {
	tmpDir := t.TempDir()
	out := filepath.Join(tmpDir, "dist")
	writeFile(t, filepath.Join(out, "index.mjs"), "x")
	writeFile(t, filepath.Join(out, "cjs", "index.cjs"), "x")

	cleaner := fs.NewCleaner()
	require.NoError(t, cleaner.Clean(out))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, cleaner.Clean(filepath.Join(tmpDir, "missing")))
}

func TestCopier_Copy(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "assets", "a.css"), "a{}")
	writeFile(t, filepath.Join(tmpDir, "assets", "img", "b.svg"), "<svg/>")
	writeFile(t, filepath.Join(tmpDir, "LICENSE"), "MIT")

	copier := fs.NewCopier(fs.NewWalker())
	require.NoError(t, copier.Copy(filepath.Join(tmpDir, "assets"), filepath.Join(tmpDir, "dist", "assets")))
	require.NoError(t, copier.Copy(filepath.Join(tmpDir, "LICENSE"), filepath.Join(tmpDir, "dist", "LICENSE")))

	data, err := os.ReadFile(filepath.Join(tmpDir, "dist", "assets", "img", "b.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	data, err = os.ReadFile(filepath.Join(tmpDir, "dist", "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "MIT", string(data))

	err = copier.Copy(filepath.Join(tmpDir, "nope"), filepath.Join(tmpDir, "dist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat copy source")
}

func TestPathResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "src", "index.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "utils", "index.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "b.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "node_modules", "dep", "package.json"), `{"main":"lib/main.js"}`)
	writeFile(t, filepath.Join(tmpDir, "node_modules", "dep", "lib", "main.js"), "")

	r := fs.NewPathResolver()
	from := filepath.Join(tmpDir, "src")

	tests := []struct {
		spec string
		want string
	}{
		{"./b", filepath.Join(tmpDir, "src", "b.ts")},
		{"./b.js", filepath.Join(tmpDir, "src", "b.ts")},
		{"./utils", filepath.Join(tmpDir, "src", "utils", "index.ts")},
		{"dep", filepath.Join(tmpDir, "node_modules", "dep", "lib", "main.js")},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := r.Resolve(tt.spec, from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.Resolve("./missing", from)
	require.Error(t, err)
	_, err = r.Resolve("not-installed", from)
	require.Error(t, err)
}
