package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Copier = (*Copier)(nil)

// Copier copies files and directory trees.
type Copier struct {
	walker *Walker
}

// NewCopier creates a new Copier.
func NewCopier(walker *Walker) *Copier {
	return &Copier{walker: walker}
}

// Copy copies from to to. Directories are copied recursively, keeping their layout.
func (c *Copier) Copy(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat copy source"), "path", from)
	}

	if !info.IsDir() {
		return copyFile(from, to, info.Mode())
	}

	for path, err := range c.walker.WalkFiles(from, nil) {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		fi, err := os.Stat(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
		}
		if err := copyFile(path, filepath.Join(to, rel), fi.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(from, to string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(to), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(to))
	}

	src, err := os.Open(from) //nolint:gosec // Path comes from the build description
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", from)
	}
	defer src.Close() //nolint:errcheck // Read-only file

	dst, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()) //nolint:gosec // Path comes from the build description
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", to)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", to)
	}
	if err := dst.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", to)
	}
	return nil
}
