package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/robuild/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/report"             //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/settings"           //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/state"              //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/robuild/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *settings.Resolver
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			orchestrator.NodeID,
			fs.ResolverNodeID,
			report.RendererNodeID,
			state.NodeID,
			fs.VerifierNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			settings.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.ReportRenderer](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ReportStore](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, orch, resolver, renderer, store, verifier, log, tel), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*settings.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      app,
		Logger:   log,
		Settings: resolver,
	}, nil
}
