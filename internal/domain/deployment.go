package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	// DefaultContract is the contract deployed when nothing else is requested
	DefaultContract = "ERC20FromScratch"
	// DefaultLabel prefixes the success line
	DefaultLabel = "ERC20"
)

// DefaultArgs returns the constructor arguments of the default request:
// token name, token symbol and initial supply.
func DefaultArgs() []any {
	return []any{"MyToken", "MTK", big.NewInt(1_000_000)}
}

// DeploymentRequest names a contract and the ordered constructor arguments to deploy it with.
// Arguments are either typed Go values or text to be coerced against the constructor ABI.
type DeploymentRequest struct {
	ContractName string `yaml:"contract"`
	Args         []any  `yaml:"args"`
	Label        string `yaml:"label"`
}

// DefaultDeploymentRequest returns the request used when nothing is configured.
func DefaultDeploymentRequest() DeploymentRequest {
	return DeploymentRequest{
		ContractName: DefaultContract,
		Args:         DefaultArgs(),
		Label:        DefaultLabel,
	}
}

// ContractFactory is everything needed to create an instance of a contract.
type ContractFactory struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// PendingDeployment is a submitted, not yet confirmed, creation transaction.
type PendingDeployment struct {
	TxHash  common.Hash
	From    common.Address
	Nonce   uint64
	ChainID uint64
	// Address is where the contract will live once the transaction lands.
	Address     common.Address
	Transaction *types.Transaction
}

// Confirmation is the receipt data of a mined creation transaction.
type Confirmation struct {
	TxHash          common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress common.Address
}

// DeploymentResult describes a confirmed deployment.
type DeploymentResult struct {
	ContractName string         `json:"contract"`
	Label        string         `json:"label"`
	Address      common.Address `json:"address"`
	TxHash       common.Hash    `json:"transactionHash"`
	BlockNumber  uint64         `json:"blockNumber"`
	GasUsed      uint64         `json:"gasUsed"`
	ChainID      uint64         `json:"chainId"`
	Deployer     common.Address `json:"deployer"`
}

// DryRunResult is what a deployment would cost without sending it.
type DryRunResult struct {
	ContractName string         `json:"contract"`
	Label        string         `json:"label"`
	Gas          uint64         `json:"gas"`
	ChainID      uint64         `json:"chainId"`
	Deployer     common.Address `json:"deployer"`
	Address      common.Address `json:"predictedAddress"`
}
