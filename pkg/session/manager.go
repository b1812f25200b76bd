package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration

	engineOpts []player.EngineOption
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithEngineOptions sets the options of every engine the manager runs.
func WithEngineOptions(opts ...player.EngineOption) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.PlaybackState, error) {
	var state *domain.PlaybackState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// LoadOrStart loads a session, creating an idle one if it does not exist.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.PlaybackState, error) {
	var state *domain.PlaybackState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.loadOrNew(ctx, sessionID)
		if err != nil || state.Status != domain.StatusIdle {
			return err
		}
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return state, err
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*domain.PlaybackState, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	return domain.NewPlaybackState(), nil
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.PlaybackState) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// Start (re)starts a session at nodeID over graph, creating the session if
// needed. Starting a missing node persists an ended session and returns its
// view together with an error wrapping domain.ErrNodeNotFound.
func (m *Manager) Start(ctx context.Context, sessionID string, graph *domain.Graph, nodeID string) (player.View, error) {
	if nodeID == "" {
		nodeID = player.DefaultStartNode
	}
	return m.step(ctx, sessionID, graph, true, func(e *player.Engine) error {
		return e.Start(nodeID)
	})
}

// Play runs fn against an existing session and persists the outcome. It
// returns domain.ErrSessionNotFound for unknown sessions. When fn fails the
// stored state is left as it was, unless the failure ended playback.
func (m *Manager) Play(ctx context.Context, sessionID string, graph *domain.Graph, fn func(*player.Engine) error) (player.View, error) {
	return m.step(ctx, sessionID, graph, false, fn)
}

// View returns what the session currently shows without changing it.
func (m *Manager) View(ctx context.Context, sessionID string, graph *domain.Graph) (player.View, error) {
	var view player.View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		e := player.New(graph, nil, m.engineOpts...)
		// A restore failure already leaves the engine ended; the view shows it.
		_ = e.Restore(state)
		view = e.View()
		return nil
	})
	view.SessionID = sessionID
	return view, err
}

func (m *Manager) step(ctx context.Context, sessionID string, graph *domain.Graph, create bool, fn func(*player.Engine) error) (player.View, error) {
	var view player.View
	var stepErr error

	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var state *domain.PlaybackState
		var err error
		if create {
			state, err = m.loadOrNew(ctx, sessionID)
		} else {
			state, err = m.store.Load(ctx, sessionID)
		}
		if err != nil {
			return err
		}

		e := player.New(graph, nil, m.engineOpts...)
		if err := e.Restore(state); err != nil {
			m.logger.Warn("session points at a missing node", "session_id", sessionID, "err", err)
		}

		stepErr = fn(e)
		view = e.View()
		if stepErr != nil && !errors.Is(stepErr, domain.ErrNodeNotFound) {
			return nil
		}

		if err := m.store.Save(ctx, sessionID, e.Snapshot()); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return player.View{}, err
	}

	view.SessionID = sessionID
	return view, stepErr
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
