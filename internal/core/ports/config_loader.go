package ports

import "go.trai.ch/robuild/internal/core/domain"

// ConfigLoader defines the interface for loading the build description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build description from the given package root.
	Load(cwd string) (*domain.BuildConfig, error)
}
