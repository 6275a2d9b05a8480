package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/tokendeploy/internal/domain/models"
)

// ContractSummary describes a deployable contract for listing
type ContractSummary struct {
	Contract    *models.Contract
	Constructor string // e.g. constructor(string name, string symbol, uint256 supply)
}

// ListContracts lists the contracts found in the artifact store
type ListContracts struct {
	contracts ContractRepository
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(contracts ContractRepository) *ListContracts {
	return &ListContracts{contracts: contracts}
}

// Run returns the deployable contracts whose key contains filter
func (uc *ListContracts) Run(ctx context.Context, filter string) ([]ContractSummary, error) {
	contracts, err := uc.contracts.ListContracts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	summaries := make([]ContractSummary, 0, len(contracts))
	for _, contract := range contracts {
		summary := ContractSummary{Contract: contract}
		if parsed, err := contract.Artifact.ParsedABI(); err == nil {
			summary.Constructor = constructorSignature(parsed.Constructor.Inputs)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func constructorSignature(inputs abi.Arguments) string {
	sig := "constructor("
	for i, input := range inputs {
		if i > 0 {
			sig += ", "
		}
		sig += input.Type.String()
		if input.Name != "" {
			sig += " " + input.Name
		}
	}
	return sig + ")"
}
