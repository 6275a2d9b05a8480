package app

import (
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContract *usecase.DeployContract
	ListContracts  *usecase.ListContracts
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContract *usecase.DeployContract,
	listContracts *usecase.ListContracts,
) (*App, error) {
	return &App{
		Config:         cfg,
		DeployContract: deployContract,
		ListContracts:  listContracts,
	}, nil
}

// NewListApp creates an application instance that only reads artifacts
func NewListApp(cfg *config.RuntimeConfig, listContracts *usecase.ListContracts) (*App, error) {
	return &App{
		Config:        cfg,
		ListContracts: listContracts,
	}, nil
}
