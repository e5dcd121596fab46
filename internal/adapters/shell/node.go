package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/adapters/logger"
	"go.trai.ch/robuild/internal/core/ports"
)

const (
	NodeID             graft.ID = "adapter.shell.hooks"
	DeclarationsNodeID graft.ID = "adapter.shell.declarations"
)

func init() {
	graft.Register(graft.Node[ports.HookExecutor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.HookExecutor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})

	graft.Register(graft.Node[ports.DeclarationGenerator]{
		ID:        DeclarationsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DeclarationGenerator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDeclarationGenerator(log), nil
		},
	})
}
