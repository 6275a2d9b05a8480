package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ArtifactDirs []string // searched in order

	// What to deploy
	Request RequestConfig

	// Where and as whom
	Network  *Network
	Deployer DeployerConfig

	// Execution settings
	Debug        bool
	JSON         bool
	DryRun       bool
	GasLimit     uint64        // 0 lets the node estimate
	Timeout      time.Duration // 0 waits indefinitely
	PollInterval time.Duration

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// RequestConfig holds the raw, not yet ABI-coerced deployment request
type RequestConfig struct {
	Contract string
	Args     []any
	Label    string
}

// DeployerConfig describes where the deployer key comes from
type DeployerConfig struct {
	PrivateKey string //nolint:gosec // may hold an env var reference
	Keystore   string
	Password   string //nolint:gosec
}

// Network represents network configuration
type Network struct {
	Name   string `json:"name"`
	RPCURL string `json:"rpcUrl"`
	// ChainID is only known up front for built-in networks; 0 means ask the node.
	ChainID uint64 `json:"chainId,omitempty"`
}
