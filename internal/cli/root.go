// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/config"
	"github.com/aidanlsb/planvault/internal/logging"
	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Resolved values
	cfg    *config.Config
	logger = zap.NewNop()

	// clock is the manager's notion of now.
	clock = time.Now
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "planvault",
	Short: "Planvault - technical plans in your Obsidian vault",
	Long: `Planvault files technical plans written by LLM agents into an Obsidian
vault and moves them through Inbox, Reviewed and Archive as you work.

Plans are plain markdown files with a small frontmatter header, so the
vault stays the source of truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return configError{fmt.Errorf("load .env: %w", err)}
		}
		return nil
	},
}

// Execute runs the CLI. Canceling ctx stops long-running commands such as
// serve.
func Execute(ctx context.Context) error {
	defer func() { _ = logging.Sync(logger) }()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errAlreadyReported) {
		if jsonOutput {
			outputErrorFromErr(err)
		} else {
			fmt.Fprintln(os.Stderr, ui.FailureNotice(err.Error()))
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log diagnostics to stderr")
	rootCmd.SetFlagErrorFunc(flagError)
}

// loadConfig loads the config named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if strings.TrimSpace(configPath) != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, configError{err}
	}
	return loaded, nil
}

// loadManager resolves the config, builds the logger and opens the vault.
func loadManager() (*plans.Manager, error) {
	loaded, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg = loaded

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if verbose {
		logCfg.Level = "debug"
	}
	l, err := logging.New(logCfg)
	if err != nil {
		return nil, configError{err}
	}
	logger = l

	opts, err := cfg.ManagerOptions(logger)
	if err != nil {
		return nil, configError{err}
	}
	gw, err := cfg.Gateway()
	if err != nil {
		return nil, configError{err}
	}
	opts = append(opts, plans.WithClock(clock))

	logger.Debug("vault opened",
		zap.String("backend", cfg.Vault.Backend),
		zap.String("root", cfg.Plans.Layout.Root))
	return plans.New(gw, opts...), nil
}

// resolvedConfigPath is where init writes and where Load looks.
func resolvedConfigPath() string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	return config.DefaultPath()
}
