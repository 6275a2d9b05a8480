package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/tokendeploy/internal/adapters/abi"
	"github.com/trebuchet-org/tokendeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/tokendeploy/internal/adapters/progress"
	"github.com/trebuchet-org/tokendeploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/tokendeploy/internal/adapters/signer"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// ProvideDeployer provides the RPC deployer and closes its connection on cleanup
func ProvideDeployer(cfg *config.RuntimeConfig, keys *signer.Resolver, log *slog.Logger) (*blockchain.Deployer, func()) {
	deployer := blockchain.NewDeployer(cfg, keys, log)
	return deployer, deployer.Close
}

// RepositorySet provides the artifact store
var RepositorySet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Repository)),
)

// ABISet provides constructor argument encoding
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.ArgumentEncoder), new(*abi.Encoder)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	signer.NewResolver,
	ProvideDeployer,
	wire.Bind(new(usecase.DeploymentBackend), new(*blockchain.Deployer)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	ABISet,
	BlockchainSet,
	ProgressSet,
)
