package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI names the graph resource.
const GraphURI = "parley://graph"

// StartArgs are the arguments of start_dialogue.
type StartArgs struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id,omitempty"`
}

// ContinueArgs are the arguments of continue_dialogue.
type ContinueArgs struct {
	SessionID string `json:"session_id"`
}

// ChoiceArgs are the arguments of make_choice.
type ChoiceArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

// Server exposes dialogue playback as MCP tools.
type Server struct {
	graph     *domain.Graph
	sessions  *session.Manager
	startNode string
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithStartNode sets the node used when start_dialogue names none.
func WithStartNode(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.startNode = id
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(graph *domain.Graph, manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		graph:     graph,
		sessions:  manager,
		startNode: player.DefaultStartNode,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("parley-mcp", strings.TrimSpace(parley.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_dialogue",
		mcp.WithDescription("Start (or restart) a dialogue session at a node and show its text."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to start")),
		mcp.WithString("node_id", mcp.Description("Node to start at (optional, defaults to the configured start node)")),
		mcp.WithOutputSchema[player.View](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	continueTool := mcp.NewTool("continue_dialogue",
		mcp.WithDescription("Click the dialogue text: follow the next node, or reveal the choices."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to advance")),
		mcp.WithOutputSchema[player.View](),
	)
	s.mcpServer.AddTool(continueTool, mcp.NewStructuredToolHandler(s.handleContinue))

	choiceTool := mcp.NewTool("make_choice",
		mcp.WithDescription("Pick one of the presented choices by its zero-based index."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to advance")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based choice index")),
		mcp.WithOutputSchema[player.View](),
	)
	s.mcpServer.AddTool(choiceTool, mcp.NewStructuredToolHandler(s.handleChoice))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full dialogue graph as JSON."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := codec.Marshal(s.graph, codec.FormatJSON)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode graph failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (player.View, error) {
	if args.SessionID == "" {
		return player.View{}, errors.New("session_id is required")
	}
	nodeID := args.NodeID
	if nodeID == "" {
		nodeID = s.startNode
	}
	view, err := s.sessions.Start(ctx, args.SessionID, s.graph, nodeID)
	return s.result("start_dialogue", view, err)
}

func (s *Server) handleContinue(ctx context.Context, request mcp.CallToolRequest, args ContinueArgs) (player.View, error) {
	view, err := s.sessions.Play(ctx, args.SessionID, s.graph, (*player.Engine).OnContinue)
	return s.result("continue_dialogue", view, err)
}

func (s *Server) handleChoice(ctx context.Context, request mcp.CallToolRequest, args ChoiceArgs) (player.View, error) {
	view, err := s.sessions.Play(ctx, args.SessionID, s.graph, func(e *player.Engine) error {
		return e.OnChoose(args.Index)
	})
	return s.result("make_choice", view, err)
}

// result reports a step. Reaching a missing node is not a tool failure: the
// returned view carries the ended status.
func (s *Server) result(tool string, view player.View, err error) (player.View, error) {
	if err == nil || errors.Is(err, domain.ErrNodeNotFound) {
		return view, nil
	}
	s.logger.Warn("MCP tool rejected", "tool", tool, "session_id", view.SessionID, "err", err)
	return player.View{}, fmt.Errorf("%s failed: %w", tool, err)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Dialogue Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := codec.Marshal(s.graph, codec.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
