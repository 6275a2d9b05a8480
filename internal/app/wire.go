//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/tokendeploy/internal/adapters"
	"github.com/trebuchet-org/tokendeploy/internal/config"
	"github.com/trebuchet-org/tokendeploy/internal/logging"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewListContracts,

		// App
		NewApp,
	)
	return nil, nil, nil
}

// InitListApp creates an App for commands that only read artifacts. It does
// not resolve the network, the request or the deployer.
func InitListApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		config.ProjectProvider,
		logging.LoggingSet,
		adapters.RepositorySet,
		usecase.NewListContracts,
		NewListApp,
	)
	return nil, nil, nil
}
