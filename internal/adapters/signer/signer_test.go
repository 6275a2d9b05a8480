package signer

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

const (
	// anvil account #1
	otherKey     = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	otherAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	devAddress   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// infoRecorder records Info messages
type infoRecorder struct {
	usecase.NopProgress
	messages []string
}

func (r *infoRecorder) Info(message string) {
	r.messages = append(r.messages, message)
}

func resolverFor(deployer config.DeployerConfig) *Resolver {
	return NewResolver(&config.RuntimeConfig{Deployer: deployer}, usecase.NopProgress{})
}

func TestResolverKey(t *testing.T) {
	t.Run("dev account on the local chain", func(t *testing.T) {
		sink := &infoRecorder{}
		key, err := NewResolver(&config.RuntimeConfig{}, sink).Key(DevChainID)
		require.NoError(t, err)
		assert.Equal(t, devAddress, crypto.PubkeyToAddress(key.PublicKey).Hex())
		require.Len(t, sink.messages, 1)
		assert.Contains(t, sink.messages[0], devAddress)
		assert.Contains(t, sink.messages[0], "31337")
	})

	t.Run("no key on other chains", func(t *testing.T) {
		sink := &infoRecorder{}
		_, err := NewResolver(&config.RuntimeConfig{}, sink).Key(1)
		assert.ErrorIs(t, err, ErrNoDeployerKey)
		assert.Empty(t, sink.messages)
	})

	t.Run("explicit key wins", func(t *testing.T) {
		sink := &infoRecorder{}
		key, err := NewResolver(&config.RuntimeConfig{Deployer: config.DeployerConfig{PrivateKey: otherKey}}, sink).Key(DevChainID)
		require.NoError(t, err)
		assert.Equal(t, otherAddress, crypto.PubkeyToAddress(key.PublicKey).Hex())
		assert.Empty(t, sink.messages)
	})

	t.Run("key without prefix", func(t *testing.T) {
		key, err := resolverFor(config.DeployerConfig{PrivateKey: otherKey[2:]}).Key(1)
		require.NoError(t, err)
		assert.Equal(t, otherAddress, crypto.PubkeyToAddress(key.PublicKey).Hex())
	})

	t.Run("malformed key", func(t *testing.T) {
		_, err := resolverFor(config.DeployerConfig{PrivateKey: "0xnothex"}).Key(DevChainID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing private key")
	})

	t.Run("keystore", func(t *testing.T) {
		dir := t.TempDir()
		account, err := keystore.StoreKey(dir, "secret", keystore.LightScryptN, keystore.LightScryptP)
		require.NoError(t, err)

		key, err := resolverFor(config.DeployerConfig{Keystore: account.URL.Path, Password: "secret"}).Key(1)
		require.NoError(t, err)
		assert.Equal(t, account.Address, crypto.PubkeyToAddress(key.PublicKey))

		_, err = resolverFor(config.DeployerConfig{Keystore: account.URL.Path, Password: "wrong"}).Key(1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decrypting keystore")
	})

	t.Run("missing keystore file", func(t *testing.T) {
		_, err := resolverFor(config.DeployerConfig{Keystore: t.TempDir() + "/missing.json"}).Key(1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading keystore file")
	})
}
