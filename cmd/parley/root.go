package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/parley/internal/config"
	"github.com/aretw0/parley/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley edits and plays branching dialogues",
	Long: `Parley authors dialogue trees on a terminal canvas and plays them back
in the terminal, over HTTP or as MCP tools for AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(file)
		if err != nil {
			return err
		}
		cfg = loaded

		// Flags override every other source.
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("start") {
			cfg.StartNode, _ = cmd.Flags().GetString("start")
		}
		if len(args) > 0 {
			cfg.Graph = args[0]
		}

		logger = logging.New(logging.ParseLevel(cfg.LogLevel))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command context so servers and players stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: parley.yaml, .toml or .json in the working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("start", "1", "Node playback starts at")
	rootCmd.PersistentFlags().String("graph-store", "file", "Where dialogues are stored: file or redis")
}
