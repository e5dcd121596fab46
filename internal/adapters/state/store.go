// Package state persists build reports in the package state directory.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ReportStore = (*Store)(nil)

// Store implements ports.ReportStore with one JSON file per package root.
type Store struct {
	pathFor func(rootDir string) string
	mu      sync.RWMutex
	cache   map[string]*domain.BuildReport
}

// NewStore creates a store writing to .robuild/report.json of every package.
func NewStore() *Store {
	return NewStoreWithPath(domain.ReportPath)
}

// NewStoreWithPath creates a store whose report location is computed by pathFor.
func NewStoreWithPath(pathFor func(rootDir string) string) *Store {
	return &Store{
		pathFor: pathFor,
		cache:   make(map[string]*domain.BuildReport),
	}
}

func (s *Store) load(rootDir string) (*domain.BuildReport, error) {
	path := filepath.Clean(s.pathFor(rootDir))

	//nolint:gosec // Path is derived from the package root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read build report"), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var report domain.BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal build report"), "path", path)
	}
	return &report, nil
}

func (s *Store) save(report *domain.BuildReport) error {
	path := filepath.Clean(s.pathFor(report.RootDir))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build report")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", filepath.Dir(path))
	}

	//nolint:gosec // Path is derived from the package root
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build report"), "path", path)
	}
	return nil
}

// Get retrieves the last report of rootDir. Returns nil, nil if none was recorded.
func (s *Store) Get(rootDir string) (*domain.BuildReport, error) {
	s.mu.RLock()
	report, ok := s.cache[rootDir]
	s.mu.RUnlock()
	if ok {
		return report, nil
	}

	report, err := s.load(rootDir)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if report != nil {
		s.cache[rootDir] = report
	}
	return report, nil
}

// Put stores the report of report.RootDir.
func (s *Store) Put(report domain.BuildReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(&report); err != nil {
		return err
	}
	s.cache[report.RootDir] = &report
	return nil
}
