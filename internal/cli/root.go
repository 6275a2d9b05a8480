package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/tokendeploy/internal/app"
	"github.com/trebuchet-org/tokendeploy/internal/config"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cleanupKey is the context key for the app cleanup function
	cleanupKey contextKey = "cleanup"
)

// NewRootCmd creates the root command. Run without arguments it deploys the
// configured contract.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokendeploy",
		Short: "Deploy a compiled contract and print its address",
		Long: `tokendeploy resolves a compiled Foundry or Hardhat artifact, deploys it with
the configured constructor arguments, waits for the transaction to be mined
and prints the address of the new contract.

With no configuration it deploys ERC20FromScratch("MyToken", "MTK", 1000000)
to the local node at http://127.0.0.1:8545.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			initApp := app.InitApp
			if cmd.Name() == "contracts" {
				initApp = app.InitListApp
			}

			appInstance, cleanup, err := initApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, cleanupKey, cleanup)

			// No deadline unless one is configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				ctx = context.WithValue(ctx, cleanupKey, func() {
					cancel()
					cleanup()
				})
			}

			cmd.SetContext(ctx)
			return nil
		},
		RunE: runDeploy,
	}

	// Shared flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("artifacts", "", "Artifact directory (defaults to the Foundry out dir and Hardhat artifacts/)")

	// Deployment flags
	flags := rootCmd.Flags()
	flags.String("contract", domain.DefaultContract, "Contract name or path:Name to deploy")
	flags.StringArray("arg", nil, "Constructor argument, repeat in order (default MyToken MTK 1000000)")
	flags.String("label", domain.DefaultLabel, "Label printed before the deployed address")
	flags.String("request", "", "YAML file with contract, args and label")
	flags.StringP("network", "n", "localhost", "Network name from foundry.toml [rpc_endpoints], or an RPC URL")
	flags.String("rpc-url", "", "RPC URL, overrides --network")
	flags.String("private-key", "", "Deployer private key (hex)")
	flags.String("keystore", "", "Deployer keystore file")
	flags.String("password", "", "Keystore password")
	flags.Uint64("gas-limit", 0, "Gas limit for the creation transaction (0 estimates)")
	flags.Duration("timeout", 0, "Give up after this long (0 waits indefinitely)")
	flags.Duration("poll-interval", 0, "Initial receipt polling interval (default 1s)")
	flags.Bool("dry-run", false, "Estimate the deployment without sending it")

	rootCmd.AddCommand(NewContractsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// runDeploy deploys the configured request and prints the result
func runDeploy(cmd *cobra.Command, args []string) error {
	defer closeApp(cmd)

	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	return deploy(cmd, app)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// closeApp runs the app cleanup stored by PersistentPreRunE
func closeApp(cmd *cobra.Command) {
	if cleanup, ok := cmd.Context().Value(cleanupKey).(func()); ok {
		cleanup()
	}
}
