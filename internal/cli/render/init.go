package render

import (
	"fmt"
	"io"

	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/fatih/color"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	failed := false
	for _, step := range result.Steps {
		if step.Success {
			if step.Message != "" {
				color.New(color.FgGreen).Fprintf(r.out, "✅ %s\n", step.Message)
			} else {
				color.New(color.FgGreen).Fprintf(r.out, "✅ %s\n", step.Name)
			}
			continue
		}
		failed = true
		color.New(color.FgRed).Fprintf(r.out, "❌ %s\n", step.Name)
		if step.Message != "" {
			fmt.Fprintf(r.out, "   %s\n", step.Message)
		}
		if step.Error != nil {
			fmt.Fprintf(r.out, "   %s\n", step.Error.Error())
		}
	}

	if !failed {
		r.printSuccessMessage(result)
	}
	return nil
}

func (r *InitRenderer) printSuccessMessage(result *usecase.InitProjectResult) {
	hint := color.New(color.FgHiBlack)

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		color.New(color.FgYellow).Fprintln(r.out, "⚠️  coop was already initialized in this project")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 coop initialized successfully!")
	}

	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Next steps:")

	fmt.Fprintln(r.out, "1. Review coop.toml:")
	fmt.Fprintln(r.out, "   • Check the quorum and the default voting period")
	fmt.Fprintln(r.out, "   • Quorum is measured in token base units; decimals = 0 makes it count member-tokens")
	fmt.Fprintln(r.out, "   • Point [token] at a deployed ERC-20 to vote with on-chain balances")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "2. Copy .env.example to .env if you use postgres, an event broker or an RPC node")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "3. Register the parents:")
	hint.Fprintln(r.out, "   coop member register 0x... --from <admin>")
	hint.Fprintln(r.out, "   coop member import roster.yaml --from <admin>")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "4. Propose, vote and execute:")
	hint.Fprintln(r.out, `   coop propose "Pintar el aula" --amount 150 --to 0x... --from <member>`)
	hint.Fprintln(r.out, "   coop vote 1 for --from <member>")
	hint.Fprintln(r.out, "   coop execute 1")
}
