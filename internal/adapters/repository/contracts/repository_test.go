package contracts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/domain/models"
)

const constructorABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"},{"name":"initialSupply","type":"uint256"}]}]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeFoundryArtifact(t *testing.T, root, source, name, bytecode string) {
	t.Helper()
	path := filepath.Join(root, "out", filepath.Base(source), name+".json")
	writeFile(t, path, fmt.Sprintf(`{
		"abi": %s,
		"bytecode": {"object": %q, "linkReferences": {}},
		"metadata": {"settings": {"compilationTarget": {%q: %q}}}
	}`, constructorABI, bytecode, source, name))
}

func writeHardhatArtifact(t *testing.T, root, source, name, bytecode string) {
	t.Helper()
	path := filepath.Join(root, "artifacts", source, name+".json")
	writeFile(t, path, fmt.Sprintf(`{
		"_format": "hh-sol-artifact-1",
		"contractName": %q,
		"sourceName": %q,
		"abi": %s,
		"bytecode": %q,
		"linkReferences": {}
	}`, name, source, constructorABI, bytecode))
}

func newTestRepository(root string) *Repository {
	cfg := &config.RuntimeConfig{
		ProjectRoot:  root,
		ArtifactDirs: []string{filepath.Join(root, "out"), filepath.Join(root, "artifacts")},
	}
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepositoryGetContract(t *testing.T) {
	ctx := context.Background()

	t.Run("foundry artifact by name", func(t *testing.T) {
		root := t.TempDir()
		writeFoundryArtifact(t, root, "src/ERC20FromScratch.sol", "ERC20FromScratch", "0x6001")

		repo := newTestRepository(root)
		contract, err := repo.GetContract(ctx, "ERC20FromScratch")
		require.NoError(t, err)
		assert.Equal(t, "src/ERC20FromScratch.sol", contract.Path)
		assert.Equal(t, models.ArtifactFormatFoundry, contract.Format)
		assert.Equal(t, filepath.Join("out", "ERC20FromScratch.sol", "ERC20FromScratch.json"), contract.ArtifactPath)
	})

	t.Run("hardhat artifact by name", func(t *testing.T) {
		root := t.TempDir()
		writeHardhatArtifact(t, root, "contracts/ERC20FromScratch.sol", "ERC20FromScratch", "0x6001")

		repo := newTestRepository(root)
		contract, err := repo.GetContract(ctx, "ERC20FromScratch")
		require.NoError(t, err)
		assert.Equal(t, "contracts/ERC20FromScratch.sol", contract.Path)
		assert.Equal(t, models.ArtifactFormatHardhat, contract.Format)
	})

	t.Run("full key", func(t *testing.T) {
		root := t.TempDir()
		writeHardhatArtifact(t, root, "contracts/ERC20FromScratch.sol", "ERC20FromScratch", "0x6001")

		repo := newTestRepository(root)
		contract, err := repo.GetContract(ctx, "contracts/ERC20FromScratch.sol:ERC20FromScratch")
		require.NoError(t, err)
		assert.Equal(t, "ERC20FromScratch", contract.Name)
	})

	t.Run("missing contract suggests close names", func(t *testing.T) {
		root := t.TempDir()
		writeHardhatArtifact(t, root, "contracts/ERC20.sol", "ERC20", "0x6001")
		writeHardhatArtifact(t, root, "contracts/Counter.sol", "Counter", "0x6001")

		repo := newTestRepository(root)
		_, err := repo.GetContract(ctx, "ERC20FromScratch")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrArtifactNotFound))

		var notFound domain.ContractNotFoundErr
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, []string{"ERC20"}, notFound.Suggestions)
		assert.Contains(t, err.Error(), "did you mean ERC20?")
	})

	t.Run("no artifact directories at all", func(t *testing.T) {
		repo := newTestRepository(t.TempDir())
		_, err := repo.GetContract(ctx, "ERC20FromScratch")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrArtifactNotFound))
		assert.NotContains(t, err.Error(), "did you mean")
	})

	t.Run("same name in two sources is ambiguous", func(t *testing.T) {
		root := t.TempDir()
		writeHardhatArtifact(t, root, "contracts/a/Token.sol", "Token", "0x6001")
		writeHardhatArtifact(t, root, "contracts/b/Token.sol", "Token", "0x6001")

		repo := newTestRepository(root)
		_, err := repo.GetContract(ctx, "Token")
		require.Error(t, err)

		var ambiguous domain.AmbiguousContractErr
		require.True(t, errors.As(err, &ambiguous))
		assert.Len(t, ambiguous.Matches, 2)
		assert.Contains(t, err.Error(), "contracts/a/Token.sol:Token")
		assert.Contains(t, err.Error(), "contracts/b/Token.sol:Token")

		contract, err := repo.GetContract(ctx, "contracts/b/Token.sol:Token")
		require.NoError(t, err)
		assert.Equal(t, "contracts/b/Token.sol", contract.Path)
	})

	t.Run("skips build info, debug files and interfaces", func(t *testing.T) {
		root := t.TempDir()
		writeHardhatArtifact(t, root, "contracts/IToken.sol", "IToken", "0x")
		writeFile(t, filepath.Join(root, "artifacts", "build-info", "abc.json"), `{"contractName":"Hidden","sourceName":"x.sol","bytecode":"0x6001","abi":[]}`)
		writeFile(t, filepath.Join(root, "artifacts", "contracts", "Token.sol", "Token.dbg.json"), `{"contractName":"Dbg","sourceName":"x.sol","bytecode":"0x6001","abi":[]}`)
		writeFile(t, filepath.Join(root, "out", "garbage.json"), `not json`)

		repo := newTestRepository(root)
		contracts, err := repo.ListContracts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, contracts)
	})
}

func TestRepositoryListContracts(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFoundryArtifact(t, root, "src/Token.sol", "Token", "0x6001")
	writeHardhatArtifact(t, root, "contracts/ERC20FromScratch.sol", "ERC20FromScratch", "0x6001")
	writeHardhatArtifact(t, root, "contracts/Counter.sol", "Counter", "0x6001")

	repo := newTestRepository(root)

	all, err := repo.ListContracts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "contracts/Counter.sol:Counter", all[0].Key())
	assert.Equal(t, "contracts/ERC20FromScratch.sol:ERC20FromScratch", all[1].Key())
	assert.Equal(t, "src/Token.sol:Token", all[2].Key())

	filtered, err := repo.ListContracts(ctx, "erc20")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ERC20FromScratch", filtered[0].Name)
}

func TestRepositoryFirstDirectoryWins(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFoundryArtifact(t, root, "src/Token.sol", "Token", "0x6001")
	// Same key in the hardhat tree, different bytecode
	writeFile(t, filepath.Join(root, "artifacts", "src", "Token.sol", "Token.json"), fmt.Sprintf(`{
		"contractName": "Token",
		"sourceName": "src/Token.sol",
		"abi": %s,
		"bytecode": "0x6002",
		"linkReferences": {}
	}`, constructorABI))

	repo := newTestRepository(root)
	contract, err := repo.GetContract(ctx, "Token")
	require.NoError(t, err)
	assert.Equal(t, "0x6001", contract.Artifact.Bytecode)
	assert.Equal(t, models.ArtifactFormatFoundry, contract.Format)
}
