package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
)

// DeployContract resolves a contract artifact, deploys it with the requested
// constructor arguments, waits for confirmation and reads back its address.
type DeployContract struct {
	config    *config.RuntimeConfig
	contracts ContractRepository
	encoder   ArgumentEncoder
	backend   DeploymentBackend
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	contracts ContractRepository,
	encoder ArgumentEncoder,
	backend DeploymentBackend,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		contracts: contracts,
		encoder:   encoder,
		backend:   backend,
		sink:      sink,
		log:       log,
	}
}

// RequestFromConfig builds the deployment request from the runtime configuration
func (uc *DeployContract) RequestFromConfig() domain.DeploymentRequest {
	return domain.DeploymentRequest{
		ContractName: uc.config.Request.Contract,
		Args:         uc.config.Request.Args,
		Label:        uc.config.Request.Label,
	}
}

// Run executes a deployment. Every failure is returned wrapped in its error
// class from the domain package; nothing is retried.
func (uc *DeployContract) Run(ctx context.Context, req domain.DeploymentRequest) (*domain.DeploymentResult, error) {
	factory, args, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageSubmitting,
		Message: fmt.Sprintf("Deploying %s", factory.Name),
		Spinner: true,
	})
	pending, err := uc.backend.Deploy(ctx, factory, args)
	if err != nil {
		uc.stop(ctx)
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmission, err)
	}
	uc.log.Debug("deployment submitted", "contract", factory.Name, "tx", pending.TxHash.Hex(), "nonce", pending.Nonce)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    StageConfirming,
		Message:  fmt.Sprintf("Waiting for confirmation of %s", pending.TxHash.Hex()),
		Spinner:  true,
		Metadata: pending,
	})
	confirmation, err := uc.backend.WaitDeployed(ctx, pending)
	if err != nil {
		uc.stop(ctx)
		return nil, fmt.Errorf("%w: %w", domain.ErrConfirmation, err)
	}
	uc.log.Debug("deployment confirmed", "block", confirmation.BlockNumber, "gasUsed", confirmation.GasUsed)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageQuerying,
		Message: "Reading deployed address",
		Spinner: true,
	})
	code, err := uc.backend.CodeAt(ctx, confirmation.ContractAddress)
	uc.stop(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAddressQuery, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s after deployment", domain.ErrAddressQuery, confirmation.ContractAddress.Hex())
	}

	return &domain.DeploymentResult{
		ContractName: factory.Name,
		Label:        req.Label,
		Address:      confirmation.ContractAddress,
		TxHash:       confirmation.TxHash,
		BlockNumber:  confirmation.BlockNumber,
		GasUsed:      confirmation.GasUsed,
		ChainID:      pending.ChainID,
		Deployer:     pending.From,
	}, nil
}

// DryRun resolves and encodes the request and estimates the creation
// transaction without signing or sending anything.
func (uc *DeployContract) DryRun(ctx context.Context, req domain.DeploymentRequest) (*domain.DryRunResult, error) {
	factory, args, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	estimate, err := uc.backend.EstimateDeploy(ctx, factory, args)
	uc.stop(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmission, err)
	}

	estimate.ContractName = factory.Name
	estimate.Label = req.Label
	return estimate, nil
}

// prepare resolves the contract factory and encodes the arguments. No network
// access happens here.
func (uc *DeployContract) prepare(ctx context.Context, req domain.DeploymentRequest) (*domain.ContractFactory, []any, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: fmt.Sprintf("Resolving contract: %s", req.ContractName),
		Spinner: true,
	})

	contract, err := uc.contracts.GetContract(ctx, req.ContractName)
	if err != nil {
		uc.stop(ctx)
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrArtifactNotFound, err)
	}
	uc.log.Debug("resolved contract", "key", contract.Key(), "artifact", contract.ArtifactPath, "format", contract.Format)

	parsedABI, err := contract.Artifact.ParsedABI()
	if err != nil {
		uc.stop(ctx)
		return nil, nil, fmt.Errorf("%w: %s: %w", domain.ErrArtifactNotFound, contract.ArtifactPath, err)
	}
	bytecode, err := contract.Artifact.CreationCode()
	if err != nil {
		uc.stop(ctx)
		return nil, nil, fmt.Errorf("%w: %s: %w", domain.ErrArtifactNotFound, contract.ArtifactPath, err)
	}

	args, err := uc.encoder.Encode(parsedABI.Constructor.Inputs, req.Args)
	if err != nil {
		uc.stop(ctx)
		return nil, nil, fmt.Errorf("%w: failed to encode constructor arguments: %w", domain.ErrSubmission, err)
	}

	return &domain.ContractFactory{
		Name:     contract.Name,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}, args, nil
}

func (uc *DeployContract) stop(ctx context.Context) {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
}
