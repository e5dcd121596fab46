package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathResolver = (*PathResolver)(nil)

// ResolveExtensions are tried in order when a specifier omits its extension.
var ResolveExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs", ".json"}

// PathResolver resolves specifiers with Node.js file, directory and node_modules lookup.
type PathResolver struct{}

// NewPathResolver creates a new PathResolver.
func NewPathResolver() *PathResolver {
	return &PathResolver{}
}

// Resolve returns the absolute file specifier points to from fromDir.
func (r *PathResolver) Resolve(specifier, fromDir string) (string, error) {
	if strings.HasPrefix(specifier, ".") || filepath.IsAbs(specifier) {
		base := specifier
		if !filepath.IsAbs(base) {
			base = filepath.Join(fromDir, specifier)
		}
		if path, ok := resolveFile(base); ok {
			return path, nil
		}
		if path, ok := resolveDir(base); ok {
			return path, nil
		}
		return "", zerr.With(zerr.With(zerr.New("cannot resolve module"), "specifier", specifier), "from", fromDir)
	}

	for dir := fromDir; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "node_modules", specifier)
		if path, ok := resolveFile(candidate); ok {
			return path, nil
		}
		if path, ok := resolveDir(candidate); ok {
			return path, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return "", zerr.With(zerr.With(zerr.New("cannot resolve package"), "specifier", specifier), "from", fromDir)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func resolveFile(base string) (string, bool) {
	if isFile(base) {
		return base, true
	}
	// "./a.js" may name "./a.ts" in TypeScript sources.
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, ext := range ResolveExtensions {
		if isFile(base + ext) {
			return base + ext, true
		}
		if stem != base && isFile(stem+ext) {
			return stem + ext, true
		}
	}
	return "", false
}

func resolveDir(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json")) //nolint:gosec // Path is derived from a module specifier
	if err == nil {
		var pkg struct {
			Module string `json:"module"`
			Main   string `json:"main"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			for _, field := range []string{pkg.Module, pkg.Main} {
				if field == "" {
					continue
				}
				if path, ok := resolveFile(filepath.Join(dir, field)); ok {
					return path, true
				}
			}
		}
	}
	return resolveFile(filepath.Join(dir, "index"))
}
