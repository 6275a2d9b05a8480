// Package simchain runs an in-process chain for tests. By default transactions
// are mined as soon as they are sent, the way anvil and hardhat node behave.
package simchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/eth/ethconfig"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/node"
	"github.com/stretchr/testify/require"
)

// ChainID of the simulated backend
const ChainID = 1337

const (
	// TokenABI is the constructor of the test token
	TokenABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"},{"name":"initialSupply","type":"uint256"}]}]`

	// TokenBytecode copies a 10 byte runtime that returns 42 and ignores
	// the constructor arguments appended to it
	TokenBytecode = "0x600a600c600039600a6000f3602a60005260206000f3"

	// TokenRuntime is the code left at the deployed address
	TokenRuntime = "0x602a60005260206000f3"

	// RevertingBytecode reverts in the constructor
	RevertingBytecode = "0x60006000fd"
)

// Chain is a funded simulated backend
type Chain struct {
	Backend    *simulated.Backend
	PrivateKey *ecdsa.PrivateKey
	From       common.Address

	autoMine bool
}

// New starts a simulated chain with one funded account. The backend is
// closed when the test ends.
func New(t testing.TB) *Chain {
	t.Helper()
	return newChain(t)
}

// NewHTTP starts a chain that serves JSON-RPC over HTTP and mines a block
// every blockTime, the way a node with interval mining behaves. It returns
// the chain and its endpoint URL.
func NewHTTP(t testing.TB, blockTime time.Duration) (*Chain, string) {
	t.Helper()

	port := freePort(t)
	chain := newChain(t, func(nodeConf *node.Config, _ *ethconfig.Config) {
		nodeConf.HTTPHost = "127.0.0.1"
		nodeConf.HTTPPort = port
		nodeConf.HTTPModules = []string{"eth", "net", "web3"}
	})
	chain.autoMine = false

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(blockTime)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				chain.Backend.Commit()
			}
		}
	}()
	// Runs before the backend is closed
	t.Cleanup(func() {
		close(done)
		wg.Wait()
	})

	return chain, fmt.Sprintf("http://127.0.0.1:%d", port)
}

func newChain(t testing.TB, options ...func(*node.Config, *ethconfig.Config)) *Chain {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		from: {Balance: balance},
	}, options...)
	t.Cleanup(func() {
		_ = backend.Close()
	})

	return &Chain{
		Backend:    backend,
		PrivateKey: key,
		From:       from,
		autoMine:   true,
	}
}

func freePort(t testing.TB) int {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

// Client returns a client that mines a block after every sent transaction
func (c *Chain) Client() *Client {
	return &Client{Client: c.Backend.Client(), chain: c}
}

// ManualMining stops mining on send; blocks are only produced by Commit
func (c *Chain) ManualMining() {
	c.autoMine = false
}

// Commit mines the pending transactions
func (c *Chain) Commit() common.Hash {
	return c.Backend.Commit()
}

// Key returns the funded key whatever the chain
func (c *Chain) Key(uint64) (*ecdsa.PrivateKey, error) {
	return c.PrivateKey, nil
}

// Client wraps the simulated client with automining
type Client struct {
	simulated.Client
	chain *Chain
}

// SendTransaction sends tx and mines it unless mining is manual
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	if c.chain.autoMine {
		c.chain.Backend.Commit()
	}
	return nil
}
