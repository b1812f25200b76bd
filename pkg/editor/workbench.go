package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// DefaultFileName is suggested to the save dialog.
const DefaultFileName = "dialogue.json"

// Dialog asks the user for file locations. An empty path or false means the
// user dismissed the prompt.
type Dialog interface {
	SavePath(suggested string) (string, bool)
	OpenPath() (string, bool)
}

// Workbench holds the graph being authored across editor sessions and
// carries the editor's menu commands: open, save and load. The graph outlives
// Close, so reopening the editor shows the same work.
type Workbench struct {
	graph    *domain.Graph
	session  *Session
	store    ports.GraphStore
	dialog   Dialog
	logger   *slog.Logger
	sessOpts []Option
}

// WorkbenchOption configures a Workbench.
type WorkbenchOption func(*Workbench)

// WithGraph seeds the workbench with an existing graph.
func WithGraph(g *domain.Graph) WorkbenchOption {
	return func(w *Workbench) {
		if g != nil {
			w.graph = g
		}
	}
}

// WithSessionOptions sets the options used whenever a session is opened.
func WithSessionOptions(opts ...Option) WorkbenchOption {
	return func(w *Workbench) {
		w.sessOpts = append(w.sessOpts, opts...)
	}
}

// WithWorkbenchLogger sets the logger for menu commands and opened sessions.
func WithWorkbenchLogger(logger *slog.Logger) WorkbenchOption {
	return func(w *Workbench) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkbench creates a workbench that persists through store and asks
// dialog for paths.
func NewWorkbench(store ports.GraphStore, dialog Dialog, opts ...WorkbenchOption) *Workbench {
	w := &Workbench{
		graph:  domain.NewGraph(),
		store:  store,
		dialog: dialog,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open returns the open session, creating one over the workbench graph if
// none is open. Calling it again focuses the same session.
func (w *Workbench) Open() *Session {
	if w.session == nil {
		opts := append([]Option{WithLogger(w.logger)}, w.sessOpts...)
		w.session = NewSession(w.graph, opts...)
		w.logger.Debug("editor opened", "nodes", w.graph.Len())
	}
	return w.session
}

// Session returns the open session, if any.
func (w *Workbench) Session() (*Session, bool) {
	return w.session, w.session != nil
}

// Close discards the open session's interaction state. The graph is kept.
func (w *Workbench) Close() {
	w.session = nil
}

// Graph returns the graph being authored.
func (w *Workbench) Graph() *domain.Graph {
	return w.graph
}

// Save asks for a destination and writes the graph there.
func (w *Workbench) Save(ctx context.Context) (string, error) {
	return w.SaveGraph(ctx, w.graph)
}

// SaveGraph asks for a destination and writes g there. It only reads the
// store and dialog, so hosts can run it off their event loop with a clone
// of Graph.
func (w *Workbench) SaveGraph(ctx context.Context, g *domain.Graph) (string, error) {
	if w.dialog == nil || w.store == nil {
		return "", errors.New("save dialogue: no dialog or store configured")
	}

	path, ok := w.dialog.SavePath(DefaultFileName)
	if !ok || path == "" {
		w.logger.Warn("No file selected or invalid file path.")
		return "", domain.ErrNoPathSelected
	}

	if err := w.store.Save(ctx, path, g); err != nil {
		w.logger.Warn("Dialogue save failed", "path", path, "err", err)
		return path, fmt.Errorf("save dialogue: %w", err)
	}

	w.logger.Info("Dialogue saved successfully", "path", path, "nodes", g.Len())
	return path, nil
}

// Load asks for a source and replaces the graph with its contents. On any
// failure the current graph is left untouched.
func (w *Workbench) Load(ctx context.Context) (string, error) {
	path, g, err := w.Fetch(ctx)
	if err != nil {
		return path, err
	}
	w.Apply(g)
	w.logger.Info("Dialogue loaded", "path", path, "nodes", g.Len())
	return path, nil
}

// Fetch asks for a source and reads it without touching the workbench.
// Apply installs the result.
func (w *Workbench) Fetch(ctx context.Context) (string, *domain.Graph, error) {
	if w.dialog == nil || w.store == nil {
		return "", nil, errors.New("load dialogue: no dialog or store configured")
	}

	path, ok := w.dialog.OpenPath()
	if !ok || path == "" {
		w.logger.Warn("No file selected or invalid file path.")
		return "", nil, domain.ErrNoPathSelected
	}

	g, err := w.store.Load(ctx, path)
	if err != nil {
		w.logger.Warn("Dialogue load failed", "path", path, "err", err)
		return path, nil, fmt.Errorf("load dialogue: %w", err)
	}

	for _, n := range g.Nodes {
		w.logger.Debug("node loaded", "node_id", n.ID, "text", n.Text)
	}
	return path, g, nil
}

// Apply replaces the graph, resetting the open session onto it.
func (w *Workbench) Apply(g *domain.Graph) {
	if g == nil {
		g = domain.NewGraph()
	}
	w.graph = g
	if w.session != nil {
		w.session.Replace(g)
	}
}
