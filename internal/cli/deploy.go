package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/tokendeploy/internal/app"
	"github.com/trebuchet-org/tokendeploy/internal/cli/render"
)

// deploy runs the deployment use case, or its dry run, and renders the outcome
func deploy(cmd *cobra.Command, app *app.App) error {
	renderer := render.NewDeploymentRenderer(cmd.OutOrStdout(), app.Config.JSON)
	req := app.DeployContract.RequestFromConfig()

	if app.Config.DryRun {
		result, err := app.DeployContract.DryRun(cmd.Context(), req)
		if err != nil {
			return err
		}
		return renderer.RenderDryRun(result)
	}

	result, err := app.DeployContract.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return renderer.RenderDeployment(result)
}
