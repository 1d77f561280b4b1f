// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/internal/config"
	"github.com/xkilldash9x/pagelens-cli/internal/observability"
)

// newRootCmd builds the command tree. A fresh instance per call keeps flag
// state isolated, which matters in tests; the returned pointer exposes the
// loaded configuration to subcommands.
func newRootCmd() (*cobra.Command, **config.Config) {
	var (
		cfgFile string
		cfg     *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "pagelens",
		Short: "Pagelens captures structured snapshots of live web pages.",
		Long: `Pagelens resolves the interactive structure of a page into a JSON
snapshot: stable selectors, accessible roles and names, element state and
geometry. It attaches to a running browser over the DevTools protocol, or
walks a local HTML file directly.`,
		// Version is dynamically set at build time. See cmd/version.go.
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// This function runs before any command, setting up config and logging.
			loaded, err := config.Load(cfgFile)
			if err != nil {
				// Initialize a fallback logger so the failure itself is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pagelens"})
				return err
			}
			cfg = loaded

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting pagelens", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newSnapshotCmd(&cfg))

	return rootCmd, &cfg
}

// Execute runs the CLI. The command context cancels on SIGINT/SIGTERM so a
// hung channel attempt cannot outlive the user's patience.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, _ := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Use the logger if available, otherwise fallback to stderr
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		observability.Sync()
		stop()
		os.Exit(1)
	}
	observability.Sync()
}
