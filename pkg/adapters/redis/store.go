package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultSessionPrefix namespaces playback sessions.
const DefaultSessionPrefix = "parley:session:"

// Store implements ports.StateStore using Redis.
type Store struct {
	keys keyspace
}

// Option configures a Redis-backed store.
type Option func(*keyspace)

// WithTTL sets the expiration for stored entries.
func WithTTL(ttl time.Duration) Option {
	return func(k *keyspace) {
		k.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(k *keyspace) {
		k.prefix = prefix
	}
}

// NewClient dials a Redis server with the usual address/password/db triple.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewFromClient creates a new Redis state store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{keys: keyspace{client: client, prefix: DefaultSessionPrefix}}
	for _, opt := range opts {
		opt(&s.keys)
	}
	return s
}

// Save persists the state to Redis.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.PlaybackState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return s.keys.put(ctx, sessionID, data)
}

// Load retrieves the state from Redis.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.PlaybackState, error) {
	data, err := s.keys.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.ErrSessionNotFound
	}

	var state domain.PlaybackState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if state.History == nil {
		state.History = []string{}
	}
	return &state, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.keys.del(ctx, sessionID)
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.keys.list(ctx)
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.keys.client.Close()
}
