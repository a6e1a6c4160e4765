package cli

import (
	"github.com/cooperadora-escolar/coop/internal/cli/render"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the association settings and manage local config",
		Long: `Show the association settings resolved from coop.toml and manage the
local config stored in .coop/config.local.json

The local config defines the default caller address (from) and output
format used when these flags are not explicitly provided.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default action is to show config
			return showConfig(cmd)
		},
	}

	// Add subcommands
	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Show current config",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})
	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in .coop/config.local.json
Available keys: from (caller), output

Examples:
  coop config set from 0x71C7656EC7ab88b098defB751B7401B5f6d8976F
  coop config set output json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConfigArgs,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{Key: args[0], Value: args[1]})
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"unset", "rm"},
		Short:   "Remove a config value",
		Long: `Remove a config value from .coop/config.local.json
Removing from makes --from required on mutating commands.
Removing output reverts it to 'table'.

Examples:
  coop config remove from
  coop config unset output`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConfigArgs,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
		},
	}
}

func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}
	return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
}

// completeConfigArgs completes key names, and output formats for `set output`
func completeConfigArgs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch {
	case len(args) == 0:
		return []string{"from", "output"}, cobra.ShellCompDirectiveNoFileComp
	case len(args) == 1 && cmd.Name() == "set" && args[0] == string(domain.ConfigKeyOutput):
		return []string{string(config.OutputTable), string(config.OutputJSON), string(config.OutputYAML)}, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}
