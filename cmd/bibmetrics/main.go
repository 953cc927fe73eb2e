// Package main provides the bibmetrics CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string
	sourceMode  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibmetrics",
	Short: "Publication metrics for a CV",
	Long: `bibmetrics computes h-index, g-index, i10-index and citation totals from
one or two citation providers and writes them as a LaTeX fragment.

Providers:
  ads      NASA ADS libraries (general and lead-author)
  scholar  Google Scholar public profile
  s2       Semantic Scholar author
  file     JSONL works file (see 'bibmetrics works')

Configuration is read from a YAML file, BIBMETRICS_* environment variables
and a .env file. Run 'bibmetrics config' to see the effective values.
All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for ADS_API_KEY and BIBMETRICS_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $BIBMETRICS_CONFIG or "+config.GlobalConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&sourceMode, "mode", "", "Source mode: primary, secondary or combined")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, applies flag overrides and validates
// it. Exits with ExitConfigError on any problem.
func mustLoadConfig(overrides ...func(*config.Config)) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if sourceMode != "" {
		cfg.SourceMode = sourceMode
	}
	for _, apply := range overrides {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		if !humanOutput {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}
	setupLogger(cfg)
	return cfg
}

// mustLoadRawConfig loads configuration without validating it, for commands
// that need only part of it.
func mustLoadRawConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if sourceMode != "" {
		cfg.SourceMode = sourceMode
	}
	setupLogger(cfg)
	return cfg
}

// setupLogger installs the process-wide slog logger on stderr.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
