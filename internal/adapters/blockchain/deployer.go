package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// maxPollInterval caps the receipt polling backoff
const maxPollInterval = 10 * time.Second

// Client is the subset of an Ethereum RPC client needed to deploy contracts.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc opens a client for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (Client, error)

// KeySource returns the deployer key for a chain
type KeySource interface {
	Key(chainID uint64) (*ecdsa.PrivateKey, error)
}

// Deployer implements DeploymentBackend over JSON-RPC. It connects lazily so
// that nothing touches the network before a deployment is actually attempted.
type Deployer struct {
	network      *config.Network
	gasLimit     uint64
	pollInterval time.Duration
	keys         KeySource
	dial         DialFunc
	log          *slog.Logger

	client  Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
}

// NewDeployer creates a deployer for the configured network
func NewDeployer(cfg *config.RuntimeConfig, keys KeySource, log *slog.Logger) *Deployer {
	return &Deployer{
		network:      cfg.Network,
		gasLimit:     cfg.GasLimit,
		pollInterval: cfg.PollInterval,
		keys:         keys,
		dial:         dialEthclient,
		log:          log,
	}
}

// NewDeployerWithClient creates a deployer over an already connected client
func NewDeployerWithClient(client Client, cfg *config.RuntimeConfig, keys KeySource, log *slog.Logger) *Deployer {
	d := NewDeployer(cfg, keys, log)
	d.dial = func(context.Context, string) (Client, error) { return client, nil }
	return d
}

func dialEthclient(ctx context.Context, rpcURL string) (Client, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// connect establishes the connection, verifies the chain ID and loads the key
func (d *Deployer) connect(ctx context.Context) error {
	if d.client != nil {
		return nil
	}
	if d.network == nil || d.network.RPCURL == "" {
		return fmt.Errorf("no RPC URL configured")
	}

	client, err := d.dial(ctx, d.network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC %s: %w", d.network.RPCURL, err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID from %s: %w", d.network.RPCURL, err)
	}
	if d.network.ChainID != 0 && networkChainID.Uint64() != d.network.ChainID {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", d.network.ChainID, networkChainID.Uint64())
	}

	key, err := d.keys.Key(networkChainID.Uint64())
	if err != nil {
		return err
	}

	d.client = client
	d.chainID = networkChainID
	d.key = key
	d.log.Debug("connected", "network", d.network.Name, "chainId", networkChainID, "deployer", crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}

// Deploy signs and sends the creation transaction
func (d *Deployer) Deploy(ctx context.Context, factory *domain.ContractFactory, args []any) (*domain.PendingDeployment, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	// 0 lets the node estimate
	opts.GasLimit = d.gasLimit

	address, tx, _, err := bind.DeployContract(opts, factory.ABI, factory.Bytecode, d.client, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", factory.Name, err)
	}

	return &domain.PendingDeployment{
		TxHash:      tx.Hash(),
		From:        opts.From,
		Nonce:       tx.Nonce(),
		ChainID:     d.chainID.Uint64(),
		Address:     address,
		Transaction: tx,
	}, nil
}

// WaitDeployed polls for the receipt until the transaction is mined. Receipt
// lookup errors are retried: nodes report pending transactions as not found or
// as still being indexed, and the connection may drop after the broadcast.
// The wait only ends on a receipt or when ctx is done.
func (d *Deployer) WaitDeployed(ctx context.Context, pending *domain.PendingDeployment) (*domain.Confirmation, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = d.pollInterval
	exponentialBackoff.MaxInterval = maxPollInterval
	exponentialBackoff.Multiplier = 1.5

	operation := func() (*types.Receipt, error) {
		receipt, err := d.client.TransactionReceipt(ctx, pending.TxHash)
		if err != nil {
			if ctxErr := context.Cause(ctx); ctxErr != nil {
				return nil, backoff.Permanent(ctxErr)
			}
			return nil, err
		}

		if receipt.Status != types.ReceiptStatusSuccessful {
			return nil, backoff.Permanent(fmt.Errorf("transaction %s reverted in block %s", pending.TxHash.Hex(), receipt.BlockNumber))
		}

		return receipt, nil
	}

	receipt, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithBackOff(exponentialBackoff),
		// 0 disables the elapsed time limit
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			if errors.Is(err, ethereum.NotFound) {
				d.log.Debug("transaction not yet mined", "tx", pending.TxHash.Hex(), "retryIn", next)
				return
			}
			d.log.Debug("receipt lookup failed, retrying", "tx", pending.TxHash.Hex(), "error", err, "retryIn", next)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", pending.TxHash.Hex(), err)
	}

	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("transaction %s did not create a contract", pending.TxHash.Hex())
	}

	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}

	return &domain.Confirmation{
		TxHash:          receipt.TxHash,
		BlockNumber:     blockNumber,
		GasUsed:         receipt.GasUsed,
		ContractAddress: receipt.ContractAddress,
	}, nil
}

// CodeAt returns the runtime code at an address at the latest block
func (d *Deployer) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	code, err := d.client.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	return code, nil
}

// EstimateDeploy estimates gas for the creation transaction without signing it
func (d *Deployer) EstimateDeploy(ctx context.Context, factory *domain.ContractFactory, args []any) (*domain.DryRunResult, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	input, err := factory.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}
	data := append(append([]byte{}, factory.Bytecode...), input...)

	from := crypto.PubkeyToAddress(d.key.PublicKey)
	nonce, err := d.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
	}

	gas, err := d.client.EstimateGas(ctx, ethereum.CallMsg{From: from, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return &domain.DryRunResult{
		Gas:      gas,
		ChainID:  d.chainID.Uint64(),
		Deployer: from,
		Address:  crypto.CreateAddress(from, nonce),
	}, nil
}

// Close releases the RPC connection
func (d *Deployer) Close() {
	if closer, ok := d.client.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentBackend = (*Deployer)(nil)
