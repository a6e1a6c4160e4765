package cli

import (
	"context"
	"fmt"

	"github.com/cooperadora-escolar/coop/internal/app"
	"github.com/cooperadora-escolar/coop/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "coop",
		Short: "Treasury governance for school cooperadoras",
		Long: `coop runs the treasury of a school cooperadora: parents are registered
as members, propose disbursements from the treasury, vote with the balance of
the association token, and approved proposals pay out once quorum is met.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot)
			config.BindFlags(v, cmd.Flags())

			appInstance, appCleanup, err := app.InitApp(cmd.Context(), v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// serve runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
				cleanup = nil
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("from", "", "Address acting on the association (defaults to the local config)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "association",
		Title: "Association Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Governance commands
	for _, c := range []*cobra.Command{
		NewProposeCmd(),
		NewVoteCmd(),
		NewExecuteCmd(),
		NewFinalizeCmd(),
		NewProposalCmd(),
	} {
		c.GroupID = "governance"
		rootCmd.AddCommand(c)
	}

	// Association commands
	for _, c := range []*cobra.Command{
		NewMemberCmd(),
		NewTokenCmd(),
	} {
		c.GroupID = "association"
		rootCmd.AddCommand(c)
	}

	// Management commands
	for _, c := range []*cobra.Command{
		NewInitCmd(),
		NewServeCmd(),
		NewConfigCmd(),
	} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without a wired app. init writes the
// project files the app is built from.
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "init", "__complete":
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// requireCaller returns the --from address, which mutating commands need
func requireCaller(a *app.App) (common.Address, error) {
	if a.Config.From == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no caller address: pass --from or run `coop config set from <address>`")
	}
	return a.Config.From, nil
}

// stopProgress halts a running spinner before results are printed
func stopProgress(a *app.App) {
	if s, ok := a.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}
}
