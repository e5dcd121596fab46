package ports

import "iter"

// PathResolver resolves module specifiers to files the way Node.js does.
//
//go:generate go run go.uber.org/mock/mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks
type PathResolver interface {
	// Resolve returns the absolute path specifier points to when imported from fromDir.
	Resolve(specifier, fromDir string) (string, error)
}

// InputResolver expands input patterns to concrete files.
type InputResolver interface {
	// ResolveInputs resolves the given input patterns to a list of concrete file paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}

// Walker lists the files below a directory.
type Walker interface {
	// WalkFiles yields every file below root. Unreadable paths are yielded
	// with a non-nil error and the walk continues.
	WalkFiles(root string, ignores []string) iter.Seq2[string, error]
}

// Cleaner empties output directories.
type Cleaner interface {
	Clean(dir string) error
}

// Copier copies files and directories.
type Copier interface {
	Copy(from, to string) error
}

// HashRenamer renames written files after their content.
type HashRenamer interface {
	// RenameWithHash renames path using the digest of content and returns the new path.
	// Already hashed names are returned unchanged.
	RenameWithHash(path string, content []byte) (string, error)
}
