package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// contractJSON is the --json shape of a listed contract
type contractJSON struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Artifact    string `json:"artifact"`
	Format      string `json:"format"`
	Constructor string `json:"constructor"`
}

// ContractsRenderer renders the deployable contracts table
type ContractsRenderer struct {
	out  io.Writer
	json bool
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer, asJSON bool) *ContractsRenderer {
	return &ContractsRenderer{
		out:  out,
		json: asJSON,
	}
}

// RenderContracts renders the contract list
func (r *ContractsRenderer) RenderContracts(summaries []usecase.ContractSummary) error {
	if r.json {
		return writeJSON(r.out, lo.Map(summaries, func(s usecase.ContractSummary, _ int) contractJSON {
			return contractJSON{
				Name:        s.Contract.Name,
				Path:        s.Contract.Path,
				Artifact:    s.Contract.ArtifactPath,
				Format:      string(s.Contract.Format),
				Constructor: s.Constructor,
			}
		}))
	}

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(r.out, "No deployable contracts found. Compile the project first (forge build or npx hardhat compile).")
		return err
	}

	header := color.New(color.Bold)
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{
		header.Sprint("CONTRACT"),
		header.Sprint("SOURCE"),
		header.Sprint("FORMAT"),
		header.Sprint("CONSTRUCTOR"),
	})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			color.New(color.FgYellow).Sprint(s.Contract.Name),
			s.Contract.Path,
			string(s.Contract.Format),
			s.Constructor,
		})
	}

	_, err := fmt.Fprintln(r.out, t.Render())
	return err
}
