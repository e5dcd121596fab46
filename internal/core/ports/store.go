package ports

import "go.trai.ch/robuild/internal/core/domain"

// ReportStore defines the interface for storing and retrieving build reports.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ReportStore interface {
	// Get retrieves the last report recorded for a package root.
	// Returns nil, nil if not found.
	Get(rootDir string) (*domain.BuildReport, error)

	// Put stores the report, replacing any previous report of the same root.
	Put(report domain.BuildReport) error
}
