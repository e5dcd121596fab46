package ports

import (
	"context"
	"io"

	"go.trai.ch/robuild/internal/core/domain"
)

// SizeMeasurer computes compressed sizes of written files.
//
//go:generate go run go.uber.org/mock/mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks
type SizeMeasurer interface {
	// GzipSizes returns the gzip-compressed size of every path.
	GzipSizes(ctx context.Context, paths []string) (map[string]int64, error)
}

// ReportRenderer prints build reports.
type ReportRenderer interface {
	Render(w io.Writer, report *domain.BuildReport) error
}
