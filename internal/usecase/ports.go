package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/models"
)

// ContractRepository provides access to compiled contracts
type ContractRepository interface {
	GetContract(ctx context.Context, key string) (*models.Contract, error)
	ListContracts(ctx context.Context, filter string) ([]*models.Contract, error)
}

// ArgumentEncoder turns request arguments into the Go values the ABI packer
// expects for the given constructor inputs
type ArgumentEncoder interface {
	Encode(inputs abi.Arguments, args []any) ([]any, error)
}

// DeploymentBackend talks to the target network
type DeploymentBackend interface {
	// Deploy signs and sends the creation transaction
	Deploy(ctx context.Context, factory *domain.ContractFactory, args []any) (*domain.PendingDeployment, error)
	// WaitDeployed blocks until the transaction is mined and fails if it reverted
	WaitDeployed(ctx context.Context, pending *domain.PendingDeployment) (*domain.Confirmation, error)
	// CodeAt returns the runtime code at an address
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	// EstimateDeploy estimates the creation transaction without sending it
	EstimateDeploy(ctx context.Context, factory *domain.ContractFactory, args []any) (*domain.DryRunResult, error)
}

// Progress tracking interfaces

// Deployment stages reported through ProgressSink
const (
	StageResolving  = "resolving"
	StageSubmitting = "submitting"
	StageConfirming = "confirming"
	StageQuerying   = "querying"
	StageCompleted  = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	// Info reports something the user should notice, such as a fallback
	Info(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
