package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/cran/rapportools/internal/config"
	"github.com/cran/rapportools/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process logger; replaced once config is loaded
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "rapport",
	Short: "Rapport tools: descriptive statistics and frequency tables for tabular data",
	Long: `rapport builds report-ready tables from CSV, TSV and XLSX datasets: grouped
descriptive statistics with margins (desc), frequency tables and cross-tabs
(freq), and many reports at once from a YAML plan (batch).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rapport/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	if debug {
		level = "debug"
	}
	logger = logging.New(level, format, rootCmd.ErrOrStderr())
	slog.SetDefault(logger)
}

// currentConfig returns the loaded configuration, or defaults when loading was skipped.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
