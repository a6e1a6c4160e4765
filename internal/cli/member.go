package cli

import (
	"github.com/cooperadora-escolar/coop/internal/cli/render"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewMemberCmd creates the member command group
func NewMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage the association's members",
		Long: `Manage the parents registered as members of the association.
Only members may propose and vote. Only the administrator registers members.`,
	}

	cmd.AddCommand(newMemberRegisterCmd())
	cmd.AddCommand(newMemberImportCmd())
	cmd.AddCommand(newMemberListCmd())
	cmd.AddCommand(newMemberShowCmd())

	return cmd
}

func newMemberRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <address>",
		Short: "Register a parent as a member",
		Long: `Register a parent as a member. Must be run by the administrator.

Examples:
  coop member register 0xAbC... --from 0xAdmin...`,
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

			result, err := app.RegisterMember.Run(cmd.Context(), usecase.RegisterMemberParams{
				Caller:  caller,
				Address: args[0],
			})
			if err != nil {
				return err
			}

			return render.NewMembersRenderer(cmd.OutOrStdout(), app.Config.Output).RenderRegistered(result)
		},
	}
}

func newMemberImportCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Register the parents listed in a roster file",
		Long: `Register the parents listed in a YAML roster kept by the school:

  school: Escuela N° 12
  parents:
    - name: Ana Pérez
      grade: 3B
      address: 0xAbC...

Entries that are already members are skipped. In interactive mode the
entries to register are picked from a list; --all registers every entry.`,
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

			plan, err := app.ImportRoster.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			renderer := render.NewMembersRenderer(cmd.OutOrStdout(), app.Config.Output)
			if app.Config.Output == config.OutputTable {
				renderer.RenderImportPlan(plan)
			}
			if len(plan.Pending) == 0 {
				return renderer.RenderImport(&usecase.ImportRosterResult{Skipped: plan.Existing})
			}

			entries := plan.Pending
			if !all && !app.Config.NonInteractive {
				indices, err := SelectRosterEntries(plan.Pending, "Select the parents to register")
				if err != nil {
					return err
				}
				entries = make([]models.RosterEntry, 0, len(indices))
				for _, i := range indices {
					entries = append(entries, plan.Pending[i])
				}
			}

			result, err := app.ImportRoster.Run(cmd.Context(), usecase.ImportRosterParams{
				Caller:  caller,
				Entries: entries,
			})
			stopProgress(app)
			if err != nil {
				return err
			}

			return renderer.RenderImport(result)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Register every new entry without prompting")

	return cmd
}

func newMemberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List registered members and the current quorum",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListMembers.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewMembersRenderer(cmd.OutOrStdout(), app.Config.Output).RenderList(result)
		},
	}
}

func newMemberShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [address]",
		Short: "Show membership and voting weight of an address",
		Long: `Show whether an address is a member and its current voting weight.
Defaults to the --from address.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var address string
			if len(args) == 1 {
				address = args[0]
			} else {
				caller, err := requireCaller(app)
				if err != nil {
					return err
				}
				address = caller.Hex()
			}

			result, err := app.ShowMember.Run(cmd.Context(), address)
			if err != nil && result == nil {
				return err
			}

			renderer := render.NewMembersRenderer(cmd.OutOrStdout(), app.Config.Output)
			if rerr := renderer.RenderMember(result); rerr != nil {
				return rerr
			}
			if err != nil {
				app.Log.Warn("voting weight unavailable", "error", err)
			}
			return nil
		},
	}
}
