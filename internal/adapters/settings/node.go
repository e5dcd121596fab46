package settings

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the settings resolver Graft node.
const NodeID graft.ID = "adapter.settings"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			r := New()
			if err := r.ReadFile(DefaultFile()); err != nil {
				return nil, err
			}
			return r, nil
		},
	})
}
