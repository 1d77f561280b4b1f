// File: cmd/snapshot.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/channel"
	"github.com/xkilldash9x/pagelens-cli/internal/config"
	"github.com/xkilldash9x/pagelens-cli/internal/dom/htmldom"
	"github.com/xkilldash9x/pagelens-cli/internal/observability"
)

var jsonOut = jsoniter.ConfigCompatibleWithStandardLibrary

// snapshotFlags collects the per-invocation overrides. Anything left at its
// zero value defers to the loaded configuration.
type snapshotFlags struct {
	mode        string
	visibleOnly bool
	maxDepth    int
	strategy    string
	simple      bool
	tab         int
	activeTab   bool
	timeout     time.Duration
	htmlFile    string
	pretty      bool
}

// newSnapshotCmd creates and configures the `snapshot` command. The config
// pointer is populated by the root command's PersistentPreRunE before RunE
// fires.
func newSnapshotCmd(cfg **config.Config) *cobra.Command {
	flags := &snapshotFlags{}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Captures a structured snapshot of the current page",
		Long: `Captures the interactive structure of a page as JSON on stdout.

By default the snapshot runs against a browser reachable on the configured
DevTools endpoint. With --html the page is parsed from a local file and
walked in-process instead; no browser is involved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, *cfg, flags)
		},
	}

	f := snapshotCmd.Flags()
	f.StringVar(&flags.mode, "mode", "", "snapshot mode: outline or dom-lite (default from config)")
	f.BoolVar(&flags.visibleOnly, "visible-only", false, "emit only elements visible in the viewport")
	f.IntVar(&flags.maxDepth, "max-depth", -1, "dom-lite hierarchy depth limit (default from config)")
	f.StringVar(&flags.strategy, "strategy", "", "execution strategy: robust or legacy (default from config)")
	f.BoolVar(&flags.simple, "simple", false, "bypass the resilience ladder and run the reduced script")
	f.IntVar(&flags.tab, "tab", -1, "page target index to snapshot (default: active tab)")
	f.BoolVar(&flags.activeTab, "active-tab", false, "snapshot the currently active tab")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-attempt timeout override (default from config)")
	f.StringVar(&flags.htmlFile, "html", "", "snapshot a local HTML file instead of a browser tab")
	f.BoolVar(&flags.pretty, "pretty", false, "indent the JSON output")

	return snapshotCmd
}

func runSnapshot(cmd *cobra.Command, cfg *config.Config, flags *snapshotFlags) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	opts := schemas.SnapshotOptions{
		Mode:        schemas.SnapshotMode(cfg.Snapshot.Mode),
		VisibleOnly: cfg.Snapshot.VisibleOnly,
		MaxDepth:    cfg.Snapshot.MaxDepth,
	}
	if cmd.Flags().Changed("mode") {
		switch flags.mode {
		case string(schemas.ModeOutline), string(schemas.ModeDomLite):
			opts.Mode = schemas.SnapshotMode(flags.mode)
		default:
			return fmt.Errorf("invalid --mode %q (want outline or dom-lite)", flags.mode)
		}
	}
	if cmd.Flags().Changed("visible-only") {
		opts.VisibleOnly = flags.visibleOnly
	}
	if cmd.Flags().Changed("max-depth") {
		if flags.maxDepth < 0 {
			return fmt.Errorf("invalid --max-depth %d (must not be negative)", flags.maxDepth)
		}
		opts.MaxDepth = flags.maxDepth
	}

	chanCfg := cfg.Channel
	if cmd.Flags().Changed("strategy") {
		switch flags.strategy {
		case string(schemas.StrategyRobust), string(schemas.StrategyLegacy):
			chanCfg.Strategy = flags.strategy
		default:
			return fmt.Errorf("invalid --strategy %q (want robust or legacy)", flags.strategy)
		}
	}
	if flags.timeout > 0 {
		chanCfg.OutlineTimeout = flags.timeout
		chanCfg.DomLiteTimeout = flags.timeout
	}

	target := channel.Target{TabIndex: flags.tab, ActiveTab: flags.activeTab || flags.tab < 0}

	ch, err := buildChannel(cfg, flags, logger)
	if err != nil {
		return err
	}

	coordinator := channel.NewCoordinator(ch, chanCfg, logger)
	result, err := coordinator.Snapshot(ctx, opts, target, flags.simple)
	if err != nil {
		// The failure envelope goes to stdout so callers always get JSON;
		// the non-zero exit still signals the failure.
		if snapErr, ok := err.(*schemas.SnapshotError); ok {
			writeJSON(snapErr, flags.pretty)
		}
		return err
	}

	logger.Debug("Snapshot captured",
		zap.Int("nodes", len(result.Nodes)),
		zap.String("mode", string(opts.Mode)))
	return writeJSON(result, flags.pretty)
}

// buildChannel picks the execution channel: a local HTML file is walked
// in-process, anything else goes through the DevTools protocol.
func buildChannel(cfg *config.Config, flags *snapshotFlags, logger *zap.Logger) (channel.Channel, error) {
	if flags.htmlFile == "" {
		return channel.NewCDPChannel(cfg.Channel.DevToolsURL, logger), nil
	}

	f, err := os.Open(flags.htmlFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open html file: %w", err)
	}
	defer f.Close()

	abs, err := filepath.Abs(flags.htmlFile)
	if err != nil {
		abs = flags.htmlFile
	}
	doc, err := htmldom.Parse(f, htmldom.WithURL("file://"+abs))
	if err != nil {
		return nil, fmt.Errorf("cannot parse html file: %w", err)
	}
	return channel.NewInProcChannel(doc, logger), nil
}

// writeJSON serializes a value to stdout, optionally indented. Stdout carries
// nothing but the result; all logging goes to stderr or the log file.
func writeJSON(v any, pretty bool) error {
	var (
		raw []byte
		err error
	)
	if pretty {
		raw, err = jsonOut.MarshalIndent(v, "", "  ")
	} else {
		raw, err = jsonOut.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("cannot serialize result: %w", err)
	}
	raw = append(raw, '\n')
	_, err = os.Stdout.Write(raw)
	return err
}
