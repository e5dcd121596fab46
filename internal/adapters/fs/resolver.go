package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands the input patterns below root to sorted, de-duplicated absolute file paths.
// Directories matched by a pattern are skipped. A pattern left without files is an error,
// so a mistyped entry input fails the build.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	var result []string

	for _, input := range inputs {
		pattern := input
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, input)
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPattern, err.Error()), "pattern", input)
		}

		found := false
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			result = append(result, match)
			found = true
		}
		if !found {
			return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, "failed to resolve input"), "pattern", input)
		}
	}

	slices.Sort(result)
	return slices.Compact(result), nil
}
