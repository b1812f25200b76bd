package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpAdapter "github.com/aretw0/parley/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [file]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts dialogue playback as an MCP Server.
This allows AI agents to start, continue and choose in dialogues as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(cmd.Context(), b.Graphs, cfg.Graph, false)
		if err != nil {
			return err
		}

		srv := mcpAdapter.NewServer(g, newManager(b),
			mcpAdapter.WithStartNode(cfg.StartNode),
			mcpAdapter.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			// Logs go to stderr and never corrupt JSON-RPC on stdout.
			logger.Info("Starting Parley MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			return srv.ServeSSE(cmd.Context(), port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport to use: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the SSE transport")
}
