package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/talgya/hexsim/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hexsim",
	Short: "Deterministic hex-grid strategy simulation",
	Long: `hexsim runs the turn-based simulation core headless.

Generate maps from a seed, let bots play a game into the session store,
and replay stored command logs to check they reproduce the saved state.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(os.Stderr, cfg.LogLevel))
		return nil
	},
}

// newLogger writes text to a terminal and JSON everywhere else.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
