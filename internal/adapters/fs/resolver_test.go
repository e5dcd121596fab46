package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/fs"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func writeSources(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("export {}"), 0o600))
	}
}

func TestResolver_ResolveInputs(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, "src/index.ts", "src/cli.ts", "src/util.js", "src/nested/deep.ts")

	tests := []struct {
		name   string
		inputs []string
		want   []string
	}{
		{
			name:   "literal path",
			inputs: []string{"src/index.ts"},
			want:   []string{"src/index.ts"},
		},
		{
			name:   "glob is sorted",
			inputs: []string{"src/*.ts"},
			want:   []string{"src/cli.ts", "src/index.ts"},
		},
		{
			name:   "patterns are merged and de-duplicated",
			inputs: []string{"src/index.ts", "src/*.ts", "src/*.js"},
			want:   []string{"src/cli.ts", "src/index.ts", "src/util.js"},
		},
		{
			name:   "directories are skipped",
			inputs: []string{"src/*"},
			want:   []string{"src/cli.ts", "src/index.ts", "src/util.js"},
		},
		{
			name:   "absolute pattern",
			inputs: []string{filepath.Join(root, "src", "nested", "*.ts")},
			want:   []string{"src/nested/deep.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.NewResolver().ResolveInputs(tt.inputs, root)
			require.NoError(t, err)

			want := make([]string, 0, len(tt.want))
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, filepath.FromSlash(w)))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestResolver_ResolveInputs_Errors(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, "src/index.ts")

	tests := []struct {
		name    string
		pattern string
		want    error
	}{
		{name: "malformed glob", pattern: "src/[", want: domain.ErrInvalidPattern},
		{name: "no match", pattern: "src/*.mts", want: domain.ErrInputNotFound},
		{name: "directory only", pattern: "src", want: domain.ErrInputNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fs.NewResolver().ResolveInputs([]string{tt.pattern}, root)
			require.ErrorIs(t, err, tt.want)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, tt.pattern, zErr.Metadata()["pattern"])
		})
	}
}
