package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/tokendeploy/internal/cli/render"
)

// NewContractsCmd creates the contracts command
func NewContractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts [filter]",
		Short: "List deployable contracts found in the build artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer closeApp(cmd)

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var filter string
			if len(args) == 1 {
				filter = args[0]
			}

			summaries, err := app.ListContracts.Run(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderContracts(summaries)
		},
	}
}
