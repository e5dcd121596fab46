package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/adapters/esbuild"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/adapters/manifest" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/adapters/report"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/adapters/shell"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/robuild/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			esbuild.EngineNodeID,
			esbuild.TransformerNodeID,
			esbuild.MinifierNodeID,
			fs.PathResolverNodeID,
			fs.ResolverNodeID,
			fs.WalkerNodeID,
			fs.CleanerNodeID,
			fs.CopierNodeID,
			fs.RenamerNodeID,
			manifest.NodeID,
			shell.NodeID,
			report.MeasurerNodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

//nolint:cyclop // one lookup per collaborator
func runNode(ctx context.Context) (*Orchestrator, error) {
	var (
		s   Services
		err error
	)

	if s.Engine, err = graft.Dep[ports.Engine](ctx); err != nil {
		return nil, err
	}
	if s.Transformer, err = graft.Dep[ports.Transformer](ctx); err != nil {
		return nil, err
	}
	if s.Minifier, err = graft.Dep[ports.Minifier](ctx); err != nil {
		return nil, err
	}
	if s.Paths, err = graft.Dep[ports.PathResolver](ctx); err != nil {
		return nil, err
	}
	if s.Inputs, err = graft.Dep[ports.InputResolver](ctx); err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	s.Walker = walker
	if s.Cleaner, err = graft.Dep[ports.Cleaner](ctx); err != nil {
		return nil, err
	}
	if s.Copier, err = graft.Dep[ports.Copier](ctx); err != nil {
		return nil, err
	}
	if s.Renamer, err = graft.Dep[ports.HashRenamer](ctx); err != nil {
		return nil, err
	}
	if s.Manifests, err = graft.Dep[ports.ManifestStore](ctx); err != nil {
		return nil, err
	}
	if s.Hooks, err = graft.Dep[ports.HookExecutor](ctx); err != nil {
		return nil, err
	}
	if s.Sizer, err = graft.Dep[ports.SizeMeasurer](ctx); err != nil {
		return nil, err
	}
	if s.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}

	return New(s), nil
}
