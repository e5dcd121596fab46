package domain

import "path/filepath"

const (
	// StateDir is the per-package directory robuild keeps its own files in.
	StateDir = ".robuild"
	// ReportFile is the name of the persisted build report inside StateDir.
	ReportFile = "report.json"
	// ManifestFile is the package manifest name.
	ManifestFile = "package.json"
	// SourceDir is the conventional source root distribution names are relative to.
	SourceDir = "src"
	// DefaultOutDir is the output directory when an entry names none.
	DefaultOutDir = "dist"
)

// ReportPath returns the default report location of a package.
func ReportPath(rootDir string) string {
	return filepath.Join(rootDir, StateDir, ReportFile)
}
