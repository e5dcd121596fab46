package report

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/core/ports"
)

const (
	RendererNodeID graft.ID = "adapter.report.renderer"
	MeasurerNodeID graft.ID = "adapter.report.measurer"
)

func init() {
	graft.Register(graft.Node[ports.ReportRenderer]{
		ID:        RendererNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ReportRenderer, error) {
			return NewRenderer(), nil
		},
	})

	graft.Register(graft.Node[ports.SizeMeasurer]{
		ID:        MeasurerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SizeMeasurer, error) {
			return NewGzipMeasurer(), nil
		},
	})
}
