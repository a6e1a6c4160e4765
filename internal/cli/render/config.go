package render

import (
	"fmt"
	"io"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	rt := result.Runtime
	genesis := rt.Genesis

	fmt.Fprintln(r.out, "📋 Association:")
	fmt.Fprintf(r.out, "School:    %s\n", genesis.SchoolName)
	fmt.Fprintf(r.out, "Admin:     %s\n", genesis.Admin.Hex())
	fmt.Fprintf(r.out, "Treasury:  %s\n", genesis.Treasury.Hex())
	fmt.Fprintf(r.out, "Members:   %d expected\n", genesis.ExpectedMembers)
	fmt.Fprintf(r.out, "Quorum:    %d bp\n", genesis.QuorumBasisPoints)
	fmt.Fprintf(r.out, "Voting:    %s\n", humanDuration(genesis.DefaultVotingPeriod))
	fmt.Fprintf(r.out, "Token:     %s (%s, %d decimals, %s)\n",
		genesis.Token.Name, genesis.Token.Symbol, genesis.Token.Decimals, rt.Token.Backend)
	fmt.Fprintf(r.out, "Store:     %s\n", rt.Store.Backend)
	fmt.Fprintf(r.out, "Events:    %s\n", rt.Events.Backend)

	if rt.ConfigSource == "coop.toml" {
		fmt.Fprintf(r.out, "\n📦 Config source: %s\n", getRelativePath(rt.GenesisPath))
	} else {
		fmt.Fprintln(r.out, "\n📦 Config source: built-in defaults (run `coop init`)")
	}

	fmt.Fprintln(r.out)
	if result.CallerSource == usecase.CallerOverride {
		fmt.Fprintf(r.out, "👤 Caller:  %s (%s)\n\n", result.Caller.Hex(), result.CallerSource)
	}
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .coop/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Without config, mutating commands require an explicit --from flag\n")
		return nil
	}

	fmt.Fprintln(r.out, "📋 Current config:")
	if result.Config.From != "" {
		fmt.Fprintf(r.out, "From:      %s\n", result.Config.From)
	} else {
		fmt.Fprintf(r.out, "From:      %s\n", "(not set)")
	}
	fmt.Fprintf(r.out, "Output:    %s\n", result.Config.Output)
	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case domain.ConfigKeyFrom:
		fmt.Fprintf(r.out, "✅ Removed default caller from config (--from will be required)\n")
	case domain.ConfigKeyOutput:
		fmt.Fprintf(r.out, "✅ Reset output to: %s\n", result.UpdatedConfig.Output)
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
