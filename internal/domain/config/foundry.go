package config

// FoundryConfig represents the parts of foundry.toml the deployer reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig `toml:"profile"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`

	// RawRpcEndpoints holds the endpoints before env var expansion
	RawRpcEndpoints map[string]string `toml:"-"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath string `toml:"src,omitempty"`
	OutPath string `toml:"out,omitempty"`
}

// OutDir returns the artifact output directory of a profile, falling back to
// the default profile and then to forge's default.
func (f *FoundryConfig) OutDir(profile string) string {
	if f != nil {
		if p, ok := f.Profile[profile]; ok && p.OutPath != "" {
			return p.OutPath
		}
		if p, ok := f.Profile["default"]; ok && p.OutPath != "" {
			return p.OutPath
		}
	}
	return "out"
}
