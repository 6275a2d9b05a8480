package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatFoundry ArtifactFormat = "foundry"
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
)

// Contract represents a compiled, deployable contract
type Contract struct {
	Name         string         `json:"name"`
	Path         string         `json:"path"`
	ArtifactPath string         `json:"artifactPath,omitempty"`
	Format       ArtifactFormat `json:"format"`
	Artifact     *Artifact      `json:"artifact,omitempty"`
}

// Key returns the fully qualified path:Name key
func (c *Contract) Key() string {
	return fmt.Sprintf("%s:%s", c.Path, c.Name)
}

// Artifact is the part of a compilation artifact needed to deploy a contract.
// Foundry and Hardhat artifacts are both normalized into it.
type Artifact struct {
	ABI            json.RawMessage `json:"abi"`
	Bytecode       string          `json:"bytecode"`
	LinkReferences map[string]any  `json:"linkReferences,omitempty"`
}

// ParsedABI parses the artifact ABI
func (a *Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// CreationCode decodes the creation bytecode
func (a *Artifact) CreationCode() ([]byte, error) {
	if len(a.LinkReferences) > 0 {
		return nil, fmt.Errorf("bytecode has unlinked library references")
	}
	object := a.Bytecode
	if !strings.HasPrefix(object, "0x") {
		object = "0x" + object
	}
	code, err := hexutil.Decode(object)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytecode: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact has no creation bytecode")
	}
	return code, nil
}

// foundryArtifact is the on-disk layout written by forge build
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object         string         `json:"object"`
		LinkReferences map[string]any `json:"linkReferences"`
	} `json:"bytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// hardhatArtifact is the on-disk layout written by hardhat compile
type hardhatArtifact struct {
	ContractName   string          `json:"contractName"`
	SourceName     string          `json:"sourceName"`
	ABI            json.RawMessage `json:"abi"`
	Bytecode       string          `json:"bytecode"`
	LinkReferences map[string]any  `json:"linkReferences"`
}

// ParseArtifact decodes a Foundry or Hardhat artifact file. It returns nil and
// no error for JSON that is not a deployable contract artifact.
func ParseArtifact(data []byte) (*Contract, error) {
	var header struct {
		ContractName string `json:"contractName"`
		SourceName   string `json:"sourceName"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}

	if header.ContractName != "" && header.SourceName != "" {
		var hh hardhatArtifact
		if err := json.Unmarshal(data, &hh); err != nil {
			return nil, err
		}
		if isEmptyBytecode(hh.Bytecode) {
			return nil, nil
		}
		return &Contract{
			Name:   hh.ContractName,
			Path:   hh.SourceName,
			Format: ArtifactFormatHardhat,
			Artifact: &Artifact{
				ABI:            hh.ABI,
				Bytecode:       hh.Bytecode,
				LinkReferences: hh.LinkReferences,
			},
		}, nil
	}

	var fa foundryArtifact
	if err := json.Unmarshal(data, &fa); err != nil {
		return nil, err
	}
	if isEmptyBytecode(fa.Bytecode.Object) {
		return nil, nil
	}

	// There should only be one compilation target
	var contractName, sourceName string
	for source, contract := range fa.Metadata.Settings.CompilationTarget {
		sourceName = source
		contractName = contract
		break
	}
	if contractName == "" || sourceName == "" {
		return nil, nil
	}

	return &Contract{
		Name:   contractName,
		Path:   sourceName,
		Format: ArtifactFormatFoundry,
		Artifact: &Artifact{
			ABI:            fa.ABI,
			Bytecode:       fa.Bytecode.Object,
			LinkReferences: fa.Bytecode.LinkReferences,
		},
	}, nil
}

func isEmptyBytecode(object string) bool {
	return object == "" || object == "0x"
}
