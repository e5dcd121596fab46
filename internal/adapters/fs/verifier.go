package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier checks that files recorded in a report still exist.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// MissingOutputs returns the outputs, relative to root, that no longer exist.
func (v *Verifier) MissingOutputs(root string, outputs []string) ([]string, error) {
	var missing []string
	for _, output := range outputs {
		path := output
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, output)
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, output)
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", path)
		}
	}
	return missing, nil
}
