// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/robuild/internal/adapters/config"
	_ "go.trai.ch/robuild/internal/adapters/esbuild"
	_ "go.trai.ch/robuild/internal/adapters/fs"
	_ "go.trai.ch/robuild/internal/adapters/logger"
	_ "go.trai.ch/robuild/internal/adapters/manifest"
	_ "go.trai.ch/robuild/internal/adapters/report"
	_ "go.trai.ch/robuild/internal/adapters/settings"
	_ "go.trai.ch/robuild/internal/adapters/shell"
	_ "go.trai.ch/robuild/internal/adapters/state"
	_ "go.trai.ch/robuild/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/robuild/internal/app"
	_ "go.trai.ch/robuild/internal/engine/orchestrator"
)
