package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
)

// projectMarkers identify the root of a Foundry or Hardhat project
var projectMarkers = []string{"foundry.toml", "hardhat.config.js", "hardhat.config.ts"}

// flagKeys maps flag names to config keys where they differ beyond dashes
var flagKeys = map[string]string{
	"arg":       "args",
	"artifacts": "artifacts_dir",
}

// Provider creates RuntimeConfig for Wire dependency injection. On top of
// ProjectProvider it resolves the deployment request, the network and the
// deployer key sources.
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	cfg, err := ProjectProvider(v)
	if err != nil {
		return nil, err
	}

	request, err := resolveRequest(v)
	if err != nil {
		return nil, err
	}
	cfg.Request = *request

	network, err := ResolveNetwork(v.GetString("network"), v.GetString("rpc_url"), cfg.FoundryConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}
	cfg.Network = network

	cfg.Deployer = config.DeployerConfig{
		PrivateKey: v.GetString("private_key"),
		Keystore:   resolvePath(cfg.ProjectRoot, v.GetString("keystore")),
		Password:   v.GetString("password"),
	}
	// Hardhat projects conventionally keep the deployer key in PRIVATE_KEY
	if cfg.Deployer.PrivateKey == "" {
		cfg.Deployer.PrivateKey = os.Getenv("PRIVATE_KEY")
	}

	return cfg, nil
}

// ProjectProvider creates the project part of RuntimeConfig: root, .env,
// foundry.toml, output flags and artifact directories. Commands that only read
// artifacts use it so that a bad network or request setting does not stop them.
func ProjectProvider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before any env-backed key is read
	loadEnvFiles(projectRoot)

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:   projectRoot,
		Debug:         v.GetBool("debug"),
		JSON:          v.GetBool("json"),
		DryRun:        v.GetBool("dry_run"),
		GasLimit:      v.GetUint64("gas_limit"),
		Timeout:       v.GetDuration("timeout"),
		PollInterval:  v.GetDuration("poll_interval"),
		FoundryConfig: foundryConfig,
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	if dir := v.GetString("artifacts_dir"); dir != "" {
		cfg.ArtifactDirs = []string{resolvePath(projectRoot, dir)}
	} else {
		profile := os.Getenv("FOUNDRY_PROFILE")
		if profile == "" {
			profile = "default"
		}
		cfg.ArtifactDirs = []string{
			resolvePath(projectRoot, foundryConfig.OutDir(profile)),
			filepath.Join(projectRoot, "artifacts"),
		}
	}

	return cfg, nil
}

// resolveRequest layers the request: defaults, then the request file, then
// individual keys set by flag, env or config file.
func resolveRequest(v *viper.Viper) (*config.RequestConfig, error) {
	def := domain.DefaultDeploymentRequest()
	req := &config.RequestConfig{
		Contract: def.ContractName,
		Args:     def.Args,
		Label:    def.Label,
	}

	if path := v.GetString("request"); path != "" {
		fromFile, err := LoadRequestFile(path)
		if err != nil {
			return nil, err
		}
		if fromFile.Contract != "" {
			req.Contract = fromFile.Contract
		}
		if fromFile.Label != "" {
			req.Label = fromFile.Label
		}
		if fromFile.Args != nil {
			req.Args = fromFile.Args
		}
	}

	if v.IsSet("contract") {
		req.Contract = v.GetString("contract")
	}
	if v.IsSet("label") {
		req.Label = v.GetString("label")
	}
	if v.IsSet("args") {
		args := v.GetStringSlice("args")
		req.Args = make([]any, len(args))
		for i, arg := range args {
			req.Args[i] = arg
		}
	}

	return req, nil
}

// FindProjectRoot walks up from the current directory to the first Foundry or
// Hardhat project root, falling back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Optional tokendeploy.toml in the project root
	v.SetConfigName("tokendeploy")
	v.SetConfigType("toml")
	v.AddConfigPath(projectRoot)

	v.SetEnvPrefix("TOKENDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("network", "localhost")
	v.SetDefault("timeout", "0s")
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(FlagKey(f.Name), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// FlagKey returns the config key a flag is bound to
func FlagKey(flag string) string {
	if key, ok := flagKeys[flag]; ok {
		return key
	}
	return strings.ReplaceAll(flag, "-", "_")
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
