package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cleaner = (*Cleaner)(nil)

// Cleaner removes the contents of output directories.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes everything inside dir and leaves dir itself in place.
// A missing dir is not an error.
func (c *Cleaner) Clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read output directory"), "path", dir)
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove output"), "path", path)
		}
	}
	return nil
}
