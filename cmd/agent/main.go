// Command agent connects a tactical agent to a coordinator and plays until the game ends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skirmish.ai/internal/config"
	"skirmish.ai/internal/logging"
)

var (
	configPath string
	cfg        = config.Defaults()
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "agent",
	Short:         "Rule-based tactical agent for the skirmish coordinator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = overlayFlags(cmd, loaded)
		}
		l, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: cfg.Log.Console})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "rolling log file (empty: stderr only)")
	pf.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	pf.StringVar(&cfg.DB, "db", cfg.DB, "sqlite index path (optional)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
}

// overlayFlags copies explicitly set flags over a loaded config.
func overlayFlags(cmd *cobra.Command, c config.Config) config.Config {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("log-file", func() { c.Log.File = cfg.Log.File })
	set("log-level", func() { c.Log.Level = cfg.Log.Level })
	set("db", func() { c.DB = cfg.DB })
	set("call-id", func() { c.CallID = cfg.CallID })
	set("transport", func() { c.Transport = cfg.Transport })
	set("url", func() { c.URL = cfg.URL })
	set("journal-dir", func() { c.JournalDir = cfg.JournalDir })
	set("read-timeout", func() { c.ReadTimeout = cfg.ReadTimeout })
	return c
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
