package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/core/ports"
)

const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestStore, error) {
			return NewStore(), nil
		},
	})
}
