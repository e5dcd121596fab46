package esbuild

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Metafile is the subset of the esbuild metafile robuild reads.
type Metafile struct {
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileImport is an import recorded for an output file.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
}

// MetafileOutput describes one output file. Keys and import paths of other
// outputs are relative to the working directory of the build.
type MetafileOutput struct {
	Bytes      int              `json:"bytes"`
	Imports    []MetafileImport `json:"imports"`
	Exports    []string         `json:"exports"`
	EntryPoint string           `json:"entryPoint,omitempty"`
}

func parseMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, zerr.Wrap(err, "failed to parse metafile")
	}
	return &meta, nil
}

// chunks converts the written JavaScript files into chunk records.
// names maps absolute entry source paths to distribution names.
func chunks(meta *Metafile, files []api.OutputFile, rootDir, outDir string, names map[string]string) ([]domain.Chunk, error) {
	result := make([]domain.Chunk, 0, len(files))
	for _, file := range files {
		if isSourceMap(file.Path) {
			continue
		}

		id, err := filepath.Rel(rootDir, file.Path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize output"), "path", file.Path)
		}
		id = filepath.ToSlash(id)

		fileName, err := filepath.Rel(outDir, file.Path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize output"), "path", file.Path)
		}

		output := meta.Outputs[id]
		chunk := domain.Chunk{
			ID:       domain.NewInternedString(id),
			FileName: filepath.ToSlash(fileName),
			Size:     int64(len(file.Contents)),
			// esbuild only lists exports of esm output.
			Exports: output.Exports,
		}
		for _, imp := range output.Imports {
			chunk.Imports = append(chunk.Imports, imp.Path)
		}
		if output.EntryPoint != "" {
			chunk.IsEntry = true
			chunk.EntryName = names[filepath.Join(rootDir, filepath.FromSlash(output.EntryPoint))]
		}
		result = append(result, chunk)
	}
	return result, nil
}

func isSourceMap(path string) bool {
	return strings.HasSuffix(path, ".map")
}
