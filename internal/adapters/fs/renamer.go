package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HashRenamer = (*Renamer)(nil)

// hashLen is the number of hex characters spliced into hashed names.
const hashLen = 8

var hashedName = regexp.MustCompile(`-[0-9a-f]{8}$`)

// multiExtensions are treated as a single extension when splicing the hash.
var multiExtensions = []string{".d.mts", ".d.cts", ".d.ts", ".js.map", ".mjs.map", ".cjs.map"}

// ContentHash returns the truncated xxhash64 digest of content.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))[:hashLen]
}

func splitExt(name string) (string, string) {
	for _, ext := range multiExtensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext), ext
		}
	}
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// AddHash splices the content digest before the final extension of filename:
// "name.ext" becomes "name-<hash>.ext", "name" becomes "name-<hash>".
func AddHash(filename string, content []byte) string {
	dir, base := filepath.Split(filename)
	stem, ext := splitExt(base)
	return dir + stem + "-" + ContentHash(content) + ext
}

// HasHash reports whether filename already carries a digest before its extension or at its end.
func HasHash(filename string) bool {
	base := filepath.Base(filename)
	if hashedName.MatchString(base) {
		return true
	}
	stem, _ := splitExt(base)
	return hashedName.MatchString(stem)
}

// Renamer implements ports.HashRenamer on the local file system.
type Renamer struct{}

// NewRenamer creates a new Renamer.
func NewRenamer() *Renamer {
	return &Renamer{}
}

// RenameWithHash renames path to its hashed name. Names that already carry a hash are left alone.
func (r *Renamer) RenameWithHash(path string, content []byte) (string, error) {
	if HasHash(path) {
		return path, nil
	}

	target := AddHash(path, content)
	if err := os.Rename(path, target); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to rename file"), "path", path)
	}
	return target, nil
}
