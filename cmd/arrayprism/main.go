package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CaptShanks/arrayprism/internal/config"
	"github.com/CaptShanks/arrayprism/internal/history"
	"github.com/CaptShanks/arrayprism/internal/logging"
	"github.com/CaptShanks/arrayprism/internal/tool"
	"github.com/CaptShanks/arrayprism/internal/tui"
	"github.com/CaptShanks/arrayprism/internal/updater"
)

const version = "0.1.0"

var (
	cfg    *config.Config
	logger *zap.Logger
	runner *tool.Runner
	store  *history.Store
)

var rootCmd = &cobra.Command{
	Use:   "arrayprism",
	Short: "Array Prism - array, URL and token toolkit",
	Long: `Array Prism merges and diffs arrays, turns lines into string arrays,
pulls query parameters out of URL lists and decodes JWTs.

Run without arguments to open the interactive tool menu.

ENVIRONMENT:
    ARRAYPRISM_THEME                  "light" or "dark" to force the theme
    ARRAYPRISM_OUTPUT                 default output format (auto, string, number)
    ARRAYPRISM_PARAM                  default URL parameter (sku)
    ARRAYPRISM_DEBUG                  1, true or yes to write a debug log
    ARRAYPRISM_SKIP_UPDATE_CHECK      1, true or yes to skip update checks
    ARRAYPRISM_UPDATE_CHECK_INTERVAL  days between update checks (default: 7)
    ARRAYPRISM_MAX_SAVED              saved outputs to keep (default: 100)
    ARRAYPRISM_HOME                   state directory (default: ~/.arrayprism)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(tui.Options{Request: defaultRequest()})
	},
}

// setup loads the configuration and builds the shared logger, runner and store
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.Theme {
	case config.ThemeLight:
		tui.SetLightPalette()
	case config.ThemeDark:
		tui.SetDarkPalette()
	}

	logger, err = logging.New(cfg.LogDir(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("starting", zap.String("command", cmd.CommandPath()), zap.String("version", version))

	runner = tool.NewRunner(logger)
	store = history.NewStore(cfg.SavedDir())
	return nil
}

// newChecker returns the update checker, or nil when update checks are off
func newChecker() *updater.Checker {
	if cfg.SkipUpdateCheck {
		return nil
	}
	return updater.NewChecker(version, cfg.CacheDir(), cfg.UpdateCheckInterval)
}

func defaultRequest() tool.Request {
	return tool.Request{Output: cfg.OutputMode(), Param: cfg.Param}
}

// runTUI fills in the shared dependencies and starts the interactive app
func runTUI(opts tui.Options) error {
	opts.Runner = runner
	opts.Store = store
	opts.MaxSaved = cfg.MaxSaved
	opts.Logger = logger
	opts.Checker = newChecker()
	return tui.Run(opts)
}

func init() {
	rootCmd.AddCommand(newToolCommands()...)
	rootCmd.AddCommand(savedCmd, versionCmd, upgradeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
