// Package fs provides file system adapters for walking, copying, cleaning and renaming files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// alwaysSkipped are directories never walked into.
var alwaysSkipped = []string{".git", ".jj", "node_modules"}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root in lexical order, skipping VCS
// directories, node_modules and names matching one of ignores.
// Yielded paths include root. A path that cannot be read is yielded with its
// error and the walk goes on with its siblings.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)) {
					return filepath.SkipAll
				}
				return nil
			}

			if path != root && w.ignored(d.Name(), ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) ignored(name string, ignores []string) bool {
	if slices.Contains(alwaysSkipped, name) {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
