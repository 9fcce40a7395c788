// cmd/check.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/internal/browser/session"
	"github.com/aidazolic/dropsim/internal/fixtures"
	"github.com/aidazolic/dropsim/internal/observability"
	"github.com/aidazolic/dropsim/internal/orchestrator"
)

// newCheckCmd creates and configures the `check` command.
func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [url]",
		Short: "Runs the dataset wizard upload flow check against a target",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line flags override
			// config file and environment values with the right precedence.
			if err := viper.BindPFlag("wizard.fixture", cmd.Flags().Lookup("fixture")); err != nil {
				return err
			}
			if err := viper.BindPFlag("wizard.assert_timeout", cmd.Flags().Lookup("timeout")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("fixtures.dir", cmd.Flags().Lookup("fixtures-dir")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg := loadedCfg
			if cfg == nil {
				return fmt.Errorf("configuration was not initialized")
			}
			// Re-unmarshal so the flag bindings from PreRunE apply.
			if err := viper.Unmarshal(cfg); err != nil {
				return fmt.Errorf("failed to apply flag overrides: %w", err)
			}
			if len(args) == 1 {
				cfg.Wizard.BaseURL = args[0]
			}
			if cfg.Wizard.BaseURL == "" {
				return fmt.Errorf("a wizard URL is required (argument or wizard.base_url)")
			}

			sess, err := session.New(ctx, cfg.Browser, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser session: %w", err)
			}
			defer func() {
				if cerr := sess.Close(); cerr != nil {
					logger.Warn("Session close failed.", zap.Error(cerr))
				}
			}()

			loader := fixtures.NewLoader(nil, cfg.Fixtures.Dir, logger)
			flow := orchestrator.New(sess, loader, cfg.Wizard, logger)

			result, err := flow.Run(ctx)
			if err != nil {
				return fmt.Errorf("flow check failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s registered in %v (%s)\n",
				result.FileName, result.Elapsed.Round(time.Millisecond), result.Status)
			return nil
		},
	}

	checkCmd.Flags().String("fixture", "", "fixture name to deliver (overrides wizard.fixture)")
	checkCmd.Flags().Duration("timeout", 0, "post-drop assertion timeout (overrides wizard.assert_timeout)")
	checkCmd.Flags().Bool("headless", true, "run the browser headless")
	checkCmd.Flags().String("fixtures-dir", "", "directory fixtures resolve from (overrides fixtures.dir)")

	return checkCmd
}
