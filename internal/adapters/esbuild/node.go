package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/adapters/logger"
	"go.trai.ch/robuild/internal/adapters/shell"
	"go.trai.ch/robuild/internal/core/ports"
)

const (
	EngineNodeID      graft.ID = "adapter.esbuild.engine"
	TransformerNodeID graft.ID = "adapter.esbuild.transformer"
	MinifierNodeID    graft.ID = "adapter.esbuild.minifier"
)

func init() {
	graft.Register(graft.Node[ports.Engine]{
		ID:        EngineNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, shell.DeclarationsNodeID},
		Run: func(ctx context.Context) (ports.Engine, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			declarations, err := graft.Dep[ports.DeclarationGenerator](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(log, declarations), nil
		},
	})

	graft.Register(graft.Node[ports.Transformer]{
		ID:        TransformerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Transformer, error) {
			return NewTransformer(), nil
		},
	})

	graft.Register(graft.Node[ports.Minifier]{
		ID:        MinifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Minifier, error) {
			return NewMinifier(), nil
		},
	})
}
