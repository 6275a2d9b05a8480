package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// DevChainID is the chain ID anvil and hardhat node run with
const DevChainID = 31337

// devAccountKey is account #0 of the anvil / hardhat node test mnemonic
const devAccountKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80" //nolint:gosec

// ErrNoDeployerKey is returned when no key source is configured for a non-dev chain
var ErrNoDeployerKey = errors.New("no deployer key configured: set --private-key, PRIVATE_KEY or --keystore")

// Resolver picks the deployer key from the configured sources
type Resolver struct {
	cfg  config.DeployerConfig
	sink usecase.ProgressSink
}

// NewResolver creates a new key resolver. Falling back to the dev account is
// reported through sink.
func NewResolver(cfg *config.RuntimeConfig, sink usecase.ProgressSink) *Resolver {
	return &Resolver{cfg: cfg.Deployer, sink: sink}
}

// Key returns the deployer key for a chain. An explicit private key wins over
// a keystore; the well-known dev account is only used on chain 31337.
func (r *Resolver) Key(chainID uint64) (*ecdsa.PrivateKey, error) {
	if r.cfg.PrivateKey != "" {
		return ParsePrivateKey(r.cfg.PrivateKey)
	}

	if r.cfg.Keystore != "" {
		return LoadPrivateKeyFromKeystore(r.cfg.Keystore, r.cfg.Password)
	}

	if chainID == DevChainID {
		key, err := ParsePrivateKey(devAccountKey)
		if err != nil {
			return nil, err
		}
		r.sink.Info(fmt.Sprintf("No deployer key configured, using dev account %s on chain %d",
			crypto.PubkeyToAddress(key.PublicKey).Hex(), chainID))
		return key, nil
	}

	return nil, ErrNoDeployerKey
}

// ParsePrivateKey parses a hex-encoded private key, with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	keyData := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return key, nil
}

// LoadPrivateKeyFromKeystore loads a private key from an encrypted keystore file
func LoadPrivateKeyFromKeystore(keystorePath, password string) (*ecdsa.PrivateKey, error) {
	keystoreJSON, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("reading keystore file: %w", err)
	}

	key, err := keystore.DecryptKey(keystoreJSON, password)
	if err != nil {
		return nil, fmt.Errorf("decrypting keystore: %w", err)
	}

	return key.PrivateKey, nil
}
