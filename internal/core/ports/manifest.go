package ports

import "go.trai.ch/robuild/internal/core/domain"

// ManifestStore reads and updates the package manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Read parses the manifest in rootDir. It returns domain.ErrManifestNotFound if there is none.
	Read(rootDir string) (*domain.Manifest, error)
	// WriteExports replaces the manifest "exports" field, keeping every other key in place.
	WriteExports(rootDir string, exports *domain.ExportMap) error
}
