// Package main provides the loom CLI entry point. Run without arguments to
// start the interactive chat; subcommands manage persisted sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"loom/internal/config"
	"loom/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	resumeID   string

	// Logger for non-interactive subcommands; the chat UI owns the
	// terminal and logs to files instead.
	logger *zap.Logger

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "loom - a chat client for an AI coding agent",
	Long: `loom talks to a coding agent that answers in markdown and, when it
helps, in live interactive UI surfaces (plans, forms, progress boards)
rendered right in the terminal.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Boot("loom starting, model=%s", cfg.LLM.Model)
		return runInteractiveChat(cfg, resumeID)
	},
}

func init() {
	// Assigned here rather than in the composite literal: the closure
	// references rootCmd, which would be an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logging.Initialize(config.Dir(), logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		// Interactive mode has its own UI; skip the terminal logger.
		if cmd == rootCmd {
			return nil
		}
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.Flags().StringVar(&resumeID, "resume", "", "resume a persisted session by id")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
