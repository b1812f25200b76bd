package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/ports"
)

// Runner handles the playback loop of a graph using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store is the persistence adapter for resumable playback.
	// If nil, sessions are ephemeral.
	Store     ports.StateStore
	SessionID string

	EngineOptions []player.EngineOption
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays graph from startNode until playback ends, the input is exhausted
// or the reader quits. A persisted session, when configured, is resumed
// instead of starting over.
func (r *Runner) Run(ctx context.Context, graph *domain.Graph, startNode string) error {
	handler := r.resolveHandler()

	opts := append([]player.EngineOption{player.WithLogger(r.Logger)}, r.EngineOptions...)
	engine := player.New(graph, nil, opts...)

	if err := r.begin(ctx, engine, startNode); err != nil {
		return err
	}

	for {
		view := engine.View()
		view.SessionID = r.SessionID
		if err := handler.Output(ctx, view); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if view.Status == domain.StatusEnded {
			return handler.SystemOutput(ctx, fmt.Sprintf("Dialogue ended: node %q does not exist.", lastVisited(view)))
		}

		cmd, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				r.Logger.Debug("Runner input: Context cancelled", "err", ctx.Err())
				return ctx.Err()
			}
			if errors.Is(err, ErrUnknownCommand) {
				if err := handler.SystemOutput(ctx, "Press enter to continue, type a choice number, or quit."); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("input error: %w", err)
		}

		if err := r.apply(ctx, engine, handler, cmd); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// apply runs one command against the engine and persists the result.
func (r *Runner) apply(ctx context.Context, engine *player.Engine, handler IOHandler, cmd Command) error {
	var err error
	switch cmd.Action {
	case ActionQuit:
		return io.EOF
	case ActionContinue:
		if stalled(engine) {
			return handler.SystemOutput(ctx, "End of dialogue. Type quit to leave.")
		}
		err = engine.OnContinue()
	case ActionChoose:
		err = engine.OnChoose(cmd.Index)
	default:
		return fmt.Errorf("%w: action %q", ErrUnknownCommand, cmd.Action)
	}

	switch {
	case err == nil, errors.Is(err, domain.ErrNodeNotFound):
	case errors.Is(err, domain.ErrChoiceOutOfRange):
		return handler.SystemOutput(ctx, "There is no such choice.")
	default:
		return err
	}

	if err := r.saveState(ctx, engine.Snapshot()); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	return nil
}

// begin resumes the configured session or starts at startNode.
func (r *Runner) begin(ctx context.Context, engine *player.Engine, startNode string) error {
	if startNode == "" {
		startNode = player.DefaultStartNode
	}

	if r.Store != nil && r.SessionID != "" {
		state, err := r.Store.Load(ctx, r.SessionID)
		switch {
		case err == nil && state.Status != domain.StatusIdle:
			r.Logger.Debug("session resumed", "session_id", r.SessionID, "node_id", state.CurrentNodeID)
			if err := engine.Restore(state); err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
				return fmt.Errorf("failed to resume session: %w", err)
			}
			return nil
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			return fmt.Errorf("failed to load session: %w", err)
		}
	}

	if err := engine.Start(startNode); err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
		return err
	}
	return r.saveState(ctx, engine.Snapshot())
}

func (r *Runner) saveState(ctx context.Context, state *domain.PlaybackState) error {
	if r.Store != nil && r.SessionID != "" {
		if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
			return err
		}
		r.Logger.Debug("state saved", "session_id", r.SessionID, "node_id", state.CurrentNodeID)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		// Memoize to prevent creating new pumps on subsequent Run() calls.
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}

// stalled reports whether continuing would leave the engine where it is.
func stalled(engine *player.Engine) bool {
	n, ok := engine.Current()
	return ok && len(n.Choices) == 0 && n.NextID == ""
}

func lastVisited(view player.View) string {
	if len(view.History) == 0 {
		return view.NodeID
	}
	return view.History[len(view.History)-1]
}
