package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/runner"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Play a dialogue in the terminal",
	Long: `Plays a dialogue from the start node. Press enter to continue, type a
choice number to pick it and "quit" to leave. With --session the playback is
saved after every step and resumed on the next run (requires a redis store).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		sessionID, _ := cmd.Flags().GetString("session")

		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(cmd.Context(), b.Graphs, cfg.Graph, false)
		if err != nil {
			return err
		}

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(cmd.InOrStdin(), cmd.OutOrStdout())
		} else {
			var opts []runner.TextHandlerOption
			if !plain {
				tui.PrintBanner(cmd.OutOrStdout(), parley.Version)
				opts = append(opts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
			}
			handler = runner.NewTextHandler(cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
		}

		opts := []runner.Option{
			runner.WithInputHandler(handler),
			runner.WithLogger(logger),
			runner.WithEngineOptions(player.WithContinueHint(cfg.ContinueHint)),
		}
		if sessionID != "" {
			if cfg.Store.Driver == "memory" {
				logger.Warn("Session will not outlive this run with the memory store", "session_id", sessionID)
			}
			opts = append(opts, runner.WithStore(b.Sessions), runner.WithSessionID(sessionID))
		}

		err = parley.NewRunner(opts...).Run(cmd.Context(), g, cfg.StartNode)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	playCmd.Flags().Bool("plain", false, "Print text as is, without banner or markdown rendering")
	playCmd.Flags().String("session", "", "Session ID to save and resume playback under")
}
