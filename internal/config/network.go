package config

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
)

// LocalRPCURL is where anvil and `hardhat node` listen by default
const LocalRPCURL = "http://127.0.0.1:8545"

// builtinNetworks are usable without any foundry.toml entry
var builtinNetworks = map[string]config.Network{
	"localhost": {Name: "localhost", RPCURL: LocalRPCURL},
	"anvil":     {Name: "anvil", RPCURL: LocalRPCURL},
	"hardhat":   {Name: "hardhat", RPCURL: LocalRPCURL},
}

// ResolveNetwork turns a network name or URL into a Network. An explicit RPC
// URL always wins; then foundry.toml [rpc_endpoints]; then the built-in local
// networks; then a raw URL passed as the network name.
func ResolveNetwork(name, rpcURL string, foundryConfig *config.FoundryConfig) (*config.Network, error) {
	if rpcURL != "" {
		if name == "" {
			name = "custom"
		}
		return &config.Network{Name: name, RPCURL: rpcURL}, nil
	}

	if name == "" {
		name = "localhost"
	}

	if foundryConfig != nil {
		if url, ok := foundryConfig.RpcEndpoints[name]; ok {
			if url == "" {
				return nil, fmt.Errorf("network '%s' has an empty RPC URL in foundry.toml (is %s set?)", name, missingEnvVar(name, foundryConfig.RawRpcEndpoints[name]))
			}
			return &config.Network{Name: name, RPCURL: url}, nil
		}
	}

	if network, ok := builtinNetworks[strings.ToLower(name)]; ok {
		return &network, nil
	}

	if isRPCURL(name) {
		return &config.Network{Name: "custom", RPCURL: name}, nil
	}

	return nil, fmt.Errorf("unknown network: %s (not in foundry.toml [rpc_endpoints] and not a URL)", name)
}

func isRPCURL(input string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return false
}
