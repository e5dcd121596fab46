package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/core/ports"
)

const (
	WalkerNodeID       graft.ID = "adapter.fs.walker"
	ResolverNodeID     graft.ID = "adapter.fs.resolver"
	PathResolverNodeID graft.ID = "adapter.fs.path_resolver"
	CleanerNodeID      graft.ID = "adapter.fs.cleaner"
	CopierNodeID       graft.ID = "adapter.fs.copier"
	RenamerNodeID      graft.ID = "adapter.fs.renamer"
	VerifierNodeID     graft.ID = "adapter.fs.verifier"
)

func init() {
	// Walker Node (concrete implementation shared with the Copier)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.InputResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InputResolver, error) {
			return NewResolver(), nil
		},
	})

	graft.Register(graft.Node[ports.PathResolver]{
		ID:        PathResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PathResolver, error) {
			return NewPathResolver(), nil
		},
	})

	graft.Register(graft.Node[ports.Cleaner]{
		ID:        CleanerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Cleaner, error) {
			return NewCleaner(), nil
		},
	})

	graft.Register(graft.Node[ports.Copier]{
		ID:        CopierNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Copier, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewCopier(walker), nil
		},
	})

	graft.Register(graft.Node[ports.HashRenamer]{
		ID:        RenamerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.HashRenamer, error) {
			return NewRenamer(), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}
