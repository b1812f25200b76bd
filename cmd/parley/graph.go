package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the dialogue graph visualization",
	Long: `Outputs the dialogue as a Mermaid flowchart, Graphviz DOT or an SVG
rendered with Graphviz. With --session the nodes a playback session visited
are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		sessionID, _ := cmd.Flags().GetString("session")
		ctx := cmd.Context()

		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(ctx, b.Graphs, cfg.Graph, false)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			state, err := b.Sessions.Load(ctx, sessionID)
			switch {
			case err == nil:
				overlay = &graph.GraphOverlay{VisitedNodes: state.History, CurrentNode: state.CurrentNodeID}
			case errors.Is(err, domain.ErrSessionNotFound):
				logger.Warn("Session not found, exporting without overlay", "session_id", sessionID)
			default:
				return fmt.Errorf("failed to load session: %w", err)
			}
		}

		var data []byte
		switch format {
		case "mermaid":
			data = []byte(graph.GenerateMermaid(g, cfg.StartNode, overlay))
		case "dot":
			data = []byte(graph.ToDOT(g, cfg.StartNode))
		case "svg":
			data, err = graph.RenderSVG(ctx, graph.ToDOT(g, cfg.StartNode))
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (want mermaid, dot or svg)", format)
		}

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		logger.Info("Graph exported", "format", format, "path", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid, dot or svg")
	graphCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	graphCmd.Flags().String("session", "", "Highlight the path of this playback session")
}
