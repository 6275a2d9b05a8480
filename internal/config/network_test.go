package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
)

func TestResolveNetwork(t *testing.T) {
	foundry := &config.FoundryConfig{
		RpcEndpoints: map[string]string{
			"sepolia":   "https://sepolia.example.org",
			"localhost": "http://127.0.0.1:9545",
			"unset":     "",
			"base":      "",
		},
		RawRpcEndpoints: map[string]string{
			"base": "${ALCHEMY_BASE_URL}",
		},
	}

	tests := []struct {
		name    string
		network string
		rpcURL  string
		foundry *config.FoundryConfig
		want    config.Network
		wantErr string
	}{
		{
			name: "default is the local node",
			want: config.Network{Name: "localhost", RPCURL: LocalRPCURL},
		},
		{
			name:    "builtin names are case insensitive",
			network: "Anvil",
			want:    config.Network{Name: "anvil", RPCURL: LocalRPCURL},
		},
		{
			name:    "hardhat",
			network: "hardhat",
			want:    config.Network{Name: "hardhat", RPCURL: LocalRPCURL},
		},
		{
			name:    "foundry endpoint",
			network: "sepolia",
			foundry: foundry,
			want:    config.Network{Name: "sepolia", RPCURL: "https://sepolia.example.org"},
		},
		{
			name:    "foundry endpoint shadows builtin",
			network: "localhost",
			foundry: foundry,
			want:    config.Network{Name: "localhost", RPCURL: "http://127.0.0.1:9545"},
		},
		{
			name:    "empty foundry endpoint names the env var",
			network: "unset",
			foundry: foundry,
			wantErr: "UNSET_RPC_URL",
		},
		{
			name:    "empty foundry endpoint names the referenced var",
			network: "base",
			foundry: foundry,
			wantErr: "ALCHEMY_BASE_URL",
		},
		{
			name:    "raw url as network",
			network: "https://rpc.example.org",
			want:    config.Network{Name: "custom", RPCURL: "https://rpc.example.org"},
		},
		{
			name:    "rpc url wins",
			network: "sepolia",
			rpcURL:  "http://10.0.0.1:8545",
			foundry: foundry,
			want:    config.Network{Name: "sepolia", RPCURL: "http://10.0.0.1:8545"},
		},
		{
			name:   "rpc url alone",
			rpcURL: "http://10.0.0.1:8545",
			want:   config.Network{Name: "custom", RPCURL: "http://10.0.0.1:8545"},
		},
		{
			name:    "unknown name",
			network: "mainnet",
			wantErr: "unknown network: mainnet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveNetwork(tt.network, tt.rpcURL, tt.foundry)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestGenerateEnvVarName(t *testing.T) {
	assert.Equal(t, "SEPOLIA_RPC_URL", GenerateEnvVarName("sepolia"))
	assert.Equal(t, "CELO_SEPOLIA_RPC_URL", GenerateEnvVarName("celo-sepolia"))
	assert.Equal(t, "BASE_MAINNET_RPC_URL", GenerateEnvVarName("base.mainnet"))
}
