package cli

import (
	"github.com/cooperadora-escolar/coop/internal/cli/render"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewTokenCmd creates the token command group
func NewTokenCmd() *cobra.Command {
	var baseUnits bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect and move the association token",
		Long: `The association token gives each member their voting weight and holds
the treasury. With the ledger backend the token lives in the project data
directory; with the erc20 backend it is a deployed contract.

Examples:
  coop token info
  coop token balance 0xAbC...
  coop token mint 0xAbC... 100 --from 0xAdmin...
  coop token transfer 0xAbC... 2.5 --from 0x123...
  coop token burn 10 --from 0x123...`,
	}

	cmd.PersistentFlags().BoolVar(&baseUnits, "base-units", false, "Interpret amounts in base units")

	cmd.AddCommand(newTokenOpCmd(usecase.TokenInfo, "info", "Show token details", cobra.NoArgs, &baseUnits))
	cmd.AddCommand(newTokenOpCmd(usecase.TokenBalance, "balance [address]", "Show the balance of an address", cobra.MaximumNArgs(1), &baseUnits))
	cmd.AddCommand(newTokenOpCmd(usecase.TokenTransfer, "transfer <to> <amount>", "Transfer tokens from --from", cobra.ExactArgs(2), &baseUnits))
	cmd.AddCommand(newTokenOpCmd(usecase.TokenMint, "mint <to> <amount>", "Mint tokens (token owner only)", cobra.ExactArgs(2), &baseUnits))
	cmd.AddCommand(newTokenOpCmd(usecase.TokenBurn, "burn <amount>", "Burn tokens held by --from", cobra.ExactArgs(1), &baseUnits))

	return cmd
}

func newTokenOpCmd(op, use, short string, args cobra.PositionalArgs, baseUnits *bool) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         args,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ManageTokenParams{Operation: op, BaseUnits: *baseUnits}
			switch op {
			case usecase.TokenBalance:
				if len(args) == 1 {
					params.Account = args[0]
				} else {
					caller, err := requireCaller(app)
					if err != nil {
						return err
					}
					params.Account = caller.Hex()
				}
			case usecase.TokenTransfer, usecase.TokenMint:
				params.Account, params.Amount = args[0], args[1]
			case usecase.TokenBurn:
				params.Amount = args[0]
			}
			if op != usecase.TokenInfo && op != usecase.TokenBalance {
				if params.Caller, err = requireCaller(app); err != nil {
					return err
				}
			}

			result, err := app.ManageToken.Execute(cmd.Context(), params)
			stopProgress(app)
			if err != nil {
				return err
			}

			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Config.Output).Render(result)
		},
	}
}
