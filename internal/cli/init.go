package cli

import (
	"fmt"
	"time"

	"github.com/cooperadora-escolar/coop/internal/app"
	"github.com/cooperadora-escolar/coop/internal/cli/render"
	"github.com/cooperadora-escolar/coop/internal/config"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type initOptions struct {
	school          string
	admin           string
	treasury        string
	expectedMembers uint64
	quorumBP        uint64
	votingPeriod    time.Duration
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a cooperadora in the current directory",
		Long: `Initialize a cooperadora by writing coop.toml with the association's
genesis parameters, the .coop data directory and an .env.example.

The administrator defaults to --from. The treasury defaults to the
administrator. Running init again leaves an existing coop.toml untouched.

Examples:
  coop init --school "Escuela N° 12" --admin 0xAdmin...
  coop init --admin 0xAdmin... --treasury 0xSafe... --expected-members 250 --quorum-bp 1500`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.school, "school", "", "School name")
	cmd.Flags().StringVar(&opts.admin, "admin", "", "Administrator address (defaults to --from)")
	cmd.Flags().StringVar(&opts.treasury, "treasury", "", "Treasury address (defaults to the administrator)")
	cmd.Flags().Uint64Var(&opts.expectedMembers, "expected-members", 0, "Number of parents expected to join")
	cmd.Flags().Uint64Var(&opts.quorumBP, "quorum-bp", 0, "Quorum in basis points per member (1-10000)")
	cmd.Flags().DurationVar(&opts.votingPeriod, "voting-period", 0, "Default voting period")

	return cmd
}

// runInit executes the init command
func runInit(cmd *cobra.Command, opts *initOptions) error {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	v := config.SetupViper(projectRoot)
	config.BindFlags(v, cmd.Flags())

	admin := opts.admin
	if admin == "" {
		admin = v.GetString("from")
	}
	params := usecase.InitProjectParams{
		SchoolName:      opts.school,
		ExpectedMembers: opts.expectedMembers,
		QuorumBP:        opts.quorumBP,
		VotingPeriod:    opts.votingPeriod,
	}
	if params.Admin, err = parseFlagAddress("admin", admin); err != nil {
		return err
	}
	if opts.treasury != "" {
		if params.Treasury, err = parseFlagAddress("treasury", opts.treasury); err != nil {
			return err
		}
	}

	initProject, err := app.InitProjectUseCase(v)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	renderer := render.NewInitRenderer(cmd.OutOrStdout())
	result, err := initProject.Execute(cmd.Context(), params)
	if err != nil {
		// Still render partial results even on error
		if result != nil {
			_ = renderer.Render(result)
		}
		return err
	}

	return renderer.Render(result)
}

func parseFlagAddress(flag, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("--%s is required", flag)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("--%s: %w: %q", flag, domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}
