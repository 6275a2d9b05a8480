package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/tokendeploy/internal/domain"
)

// DeploymentRenderer renders the outcome of a deployment run
type DeploymentRenderer struct {
	out  io.Writer
	json bool
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, asJSON bool) *DeploymentRenderer {
	return &DeploymentRenderer{
		out:  out,
		json: asJSON,
	}
}

// RenderDeployment writes the single success line, or the full result as JSON
func (r *DeploymentRenderer) RenderDeployment(result *domain.DeploymentResult) error {
	if r.json {
		return writeJSON(r.out, result)
	}
	_, err := fmt.Fprintf(r.out, "%s deployed to: %s\n", result.Label, result.Address.Hex())
	return err
}

// RenderDryRun writes the gas estimate and predicted address of a dry run
func (r *DeploymentRenderer) RenderDryRun(result *domain.DryRunResult) error {
	if r.json {
		return writeJSON(r.out, result)
	}
	_, err := fmt.Fprintf(r.out, "%s dry run: %d gas, would deploy to %s\n", result.Label, result.Gas, result.Address.Hex())
	return err
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
