package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sheetlens/internal/config"
	"github.com/KaramelBytes/sheetlens/internal/gologger"
	"github.com/KaramelBytes/sheetlens/internal/session"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagBackend string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = gologger.NewLogger()
)

var rootCmd = &cobra.Command{
	Use:   "sheetlens",
	Short: "SheetLens: summaries, outliers and chart series for CSV/XLSX files",
	Long: `SheetLens analyzes tabular files (CSV/XLSX). Run it as an HTTP service that keeps
uploads in sessions, or analyze local files directly from the command line.`,
	SilenceUsage: true,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheetlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "session backend: memory|file|badger|sqlite (overrides config)")
}

func loadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load .env file: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to requireConfig errors
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("backend") && flagBackend != "" {
		cfg.SessionBackend = flagBackend
	}
	level := cfg.LogLevel
	if debug {
		level = zerolog.LevelDebugValue
	}
	l, err := gologger.Configure(level, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	return cfg, nil
}

// openStore opens the configured session backend.
func openStore(c *cfgpkg.Global) (session.Store, error) {
	return session.Open(session.Config{
		Backend:  session.Backend(c.SessionBackend),
		Dir:      c.SessionDir,
		TTL:      c.SessionTTL(),
		IDFormat: c.SessionIDFormat,
	}, logger)
}
