package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/metrics"
	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes playback sessions over a graph as a JSON API.
type Server struct {
	Graph     *domain.Graph
	Sessions  *session.Manager
	Streams   *StreamManager
	StartNode string

	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStartNode sets the node used when a start request names none.
func WithStartNode(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.StartNode = id
		}
	}
}

// WithMetrics counts requests into c and mounts it at /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
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

// NewServer creates a server playing graph through manager.
func NewServer(graph *domain.Graph, manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		Graph:     graph,
		Sessions:  manager,
		Streams:   NewStreamManager(),
		StartNode: player.DefaultStartNode,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for graph and manager.
func NewHandler(graph *domain.Graph, manager *session.Manager, opts ...Option) http.Handler {
	return NewServer(graph, manager, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)
	if s.metrics != nil {
		r.Use(s.countRequests)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/start", s.StartSession)
			r.Post("/continue", s.Continue)
			r.Post("/choose/{index}", s.Choose)
			r.Get("/ws", s.ServeSocket)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, strconv.Itoa(status))
	})
}

// StartRequest is the optional body of POST /sessions/{id}/start.
type StartRequest struct {
	NodeID string `json:"node_id"`
}

// StartSession handles POST /sessions/{id}/start.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Start: Invalid request body", "err", err)
		return
	}

	nodeID := body.NodeID
	if nodeID == "" {
		nodeID = s.StartNode
	}

	id := chi.URLParam(r, "id")
	view, err := s.Sessions.Start(r.Context(), id, s.Graph, nodeID)
	if err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
		s.fail(w, "Start", id, err)
		return
	}
	s.respond(w, "Start", view)
}

// Continue handles POST /sessions/{id}/continue.
func (s *Server) Continue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Sessions.Play(r.Context(), id, s.Graph, (*player.Engine).OnContinue)
	if err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
		s.fail(w, "Continue", id, err)
		return
	}
	s.respond(w, "Continue", view)
}

// Choose handles POST /sessions/{id}/choose/{index}.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid choice index", http.StatusBadRequest)
		return
	}

	view, err := s.Sessions.Play(r.Context(), id, s.Graph, func(e *player.Engine) error {
		return e.OnChoose(index)
	})
	if err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
		s.fail(w, "Choose", id, err)
		return
	}
	s.respond(w, "Choose", view)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Sessions.View(r.Context(), id, s.Graph)
	if err != nil {
		s.fail(w, "GetSession", id, err)
		return
	}
	writeJSON(w, s.logger, view)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteSession", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", "", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, map[string][]string{"sessions": ids})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	data, err := codec.Marshal(s.Graph, codec.FormatJSON)
	if err != nil {
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetGraph failed", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]any{
		"app":     "parley-http",
		"version": strings.TrimSpace(parley.Version),
		"nodes":   s.Graph.Len(),
	})
}

func (s *Server) respond(w http.ResponseWriter, op string, view player.View) {
	if data, err := json.Marshal(view); err == nil {
		s.Streams.Broadcast(view.SessionID, string(data))
	}
	s.logger.Debug(op+": done", "session_id", view.SessionID, "node_id", view.NodeID, "status", view.Status)
	writeJSON(w, s.logger, view)
}

func (s *Server) fail(w http.ResponseWriter, op, sessionID string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "session_id", sessionID, "err", err)
	} else {
		s.logger.Warn(op+" rejected", "session_id", sessionID, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrChoiceOutOfRange), errors.Is(err, ErrUnknownMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPlaybackEnded), errors.Is(err, player.ErrNotStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
