package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cooperadora-escolar/coop/internal/app"
	"github.com/cooperadora-escolar/coop/internal/cli/render"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewProposeCmd creates the propose command
func NewProposeCmd() *cobra.Command {
	var (
		amount    string
		recipient string
		duration  time.Duration
		baseUnits bool
	)

	cmd := &cobra.Command{
		Use:   "propose <description>",
		Short: "Propose a disbursement from the treasury",
		Long: `Propose paying an amount from the association treasury to a recipient.

The proposer must be a member. The quorum threshold is fixed when the
proposal is created: ceil(members * quorum_bp / 10000), compared against
the For weight in token base units.

Examples:
  coop propose "Pintar el aula de 3er grado" --amount 150 --to 0xAbC... --from 0x123...
  coop propose "Libros" --amount 50000000000000000000 --base-units --to 0xAbC... --duration 72h`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			caller, err := requireCaller(app)
			if err != nil {
				return err
			}

			proposal, err := app.CreateProposal.Run(cmd.Context(), usecase.CreateProposalParams{
				Proposer:    caller,
				Description: args[0],
				Amount:      amount,
				BaseUnits:   baseUnits,
				Recipient:   recipient,
				Duration:    duration,
			})
			stopProgress(app)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderCreated(proposal, app.Registry.Genesis().Token.Decimals)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to disburse, in whole tokens")
	cmd.Flags().StringVar(&recipient, "to", "", "Recipient of the funds")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Voting period (defaults to the association's)")
	cmd.Flags().BoolVar(&baseUnits, "base-units", false, "Interpret --amount in base units")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote [proposal-id] <for|against|abstain>",
		Short: "Vote on an active proposal",
		Long: `Cast a ballot on an active proposal. The ballot weighs the voter's token
balance at the time of voting. Each member votes once per proposal.

Without a proposal id, pick one of the active proposals interactively.

Examples:
  coop vote 3 for --from 0x123...
  coop vote against`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			caller, err := requireCaller(app)
			if err != nil {
				return err
			}

			params := usecase.CastVoteParams{Voter: caller, Choice: args[len(args)-1]}
			if len(args) == 2 {
				if params.ProposalID, err = parseProposalID(args[0]); err != nil {
					return err
				}
			}

			result, err := app.CastVote.Run(cmd.Context(), params)
			stopProgress(app)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderVote(result, app.Registry.Genesis().Token.Decimals)
		},
	}
}

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "execute [proposal-id]",
		Short: "Pay out an approved proposal",
		Long: `Transfer the proposal amount from the treasury to its recipient.

Anyone may execute a proposal once its voting period has ended with the
quorum met and more votes for than against. A proposal is paid at most once.

Examples:
  coop execute 3
  coop execute 3 --yes`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ExecuteProposalParams{Confirm: !yes && !app.Config.NonInteractive}
			if len(args) == 1 {
				if params.ProposalID, err = parseProposalID(args[0]); err != nil {
					return err
				}
			}

			result, err := app.ExecuteProposal.Run(cmd.Context(), params)
			stopProgress(app)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderExecuted(result, app.Registry.Genesis().Token.Decimals)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// NewFinalizeCmd creates the finalize command
func NewFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize [proposal-id...]",
		Short: "Record the outcome of proposals whose voting has closed",
		Long: `Record the final status of proposals whose voting deadline has passed.
Without arguments every closed proposal still marked active is finalized.
` + "`coop serve`" + ` does this on a schedule.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ids := make([]uint64, 0, len(args))
			for _, arg := range args {
				id, err := parseProposalID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			result, err := app.FinalizeProposals.Run(cmd.Context(), usecase.FinalizeProposalsParams{IDs: ids})
			stopProgress(app)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderFinalized(result, app.Registry.Genesis().Token.Decimals)
		},
	}
}

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals"},
		Short:   "Inspect proposals",
	}
	cmd.AddCommand(newProposalListCmd())
	cmd.AddCommand(newProposalShowCmd())
	return cmd
}

func newProposalListCmd() *cobra.Command {
	var (
		status   string
		proposer string
		search   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Long: `List proposals with their current status. A proposal whose voting period
has ended shows its outcome even before it is finalized.

Examples:
  coop proposal list
  coop proposal list --status approved
  coop proposal list --search pintura -o json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				Status:   status,
				Proposer: proposer,
				Search:   search,
			})
			stopProgress(app)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, approved, rejected, expired, executed)")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Filter by proposer address")
	cmd.Flags().StringVar(&search, "search", "", "Fuzzy search in descriptions")

	return cmd
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show <proposal-id>",
		Short:        "Show a proposal with its tally and ballots",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), id)
			if err != nil {
				return err
			}

			return newProposalsRenderer(cmd, app).RenderProposal(result)
		},
	}
}

func newProposalsRenderer(cmd *cobra.Command, a *app.App) *render.ProposalsRenderer {
	return render.NewProposalsRenderer(cmd.OutOrStdout(), a.Config.Output, a.Registry.Genesis().Token.Symbol)
}

func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}
