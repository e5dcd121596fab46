// Package manifest reads and updates package.json files.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestStore = (*Store)(nil)

// Store implements ports.ManifestStore on package.json.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

func manifestPath(rootDir string) string {
	return filepath.Join(rootDir, domain.ManifestFile)
}

// Read parses the manifest of rootDir.
func (s *Store) Read(rootDir string) (*domain.Manifest, error) {
	path := manifestPath(rootDir)
	data, err := os.ReadFile(path) //nolint:gosec // Path is the package root chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "failed to read manifest"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}
	return &m, nil
}

// WriteExports sets the "exports" field. Existing keys keep their position,
// a new "exports" key is appended, and the file is written with two-space indentation.
func (s *Store) WriteExports(rootDir string, exports *domain.ExportMap) error {
	path := manifestPath(rootDir)
	data, err := os.ReadFile(path) //nolint:gosec // Path is the package root chosen by the user
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	fields, err := orderedFields(data)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}

	value, err := json.Marshal(exports)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal exports")
	}

	replaced := false
	for i := range fields {
		if fields[i].key == "exports" {
			fields[i].value = value
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, field{key: "exports", value: value})
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, _ := json.Marshal(f.key)
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(f.value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return zerr.Wrap(err, "failed to format manifest")
	}
	out.WriteByte('\n')

	//nolint:gosec // Manifest is meant to be world readable
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	return nil
}

type field struct {
	key   string
	value json.RawMessage
}

// orderedFields splits a JSON object into its members in document order.
func orderedFields(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, zerr.New("manifest is not a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}
	return fields, nil
}
