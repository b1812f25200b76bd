package redis

import (
	"context"
	"fmt"

	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultGraphPrefix namespaces stored dialogue graphs.
const DefaultGraphPrefix = "parley:graph:"

// GraphStore implements ports.GraphStore using Redis.
// Graphs are stored in their persisted JSON form, so a value can be copied
// out of Redis and loaded by the file store unchanged.
type GraphStore struct {
	keys keyspace
}

// NewGraphStore creates a Redis graph store from an existing client.
func NewGraphStore(client *backend.Client, opts ...Option) *GraphStore {
	s := &GraphStore{keys: keyspace{client: client, prefix: DefaultGraphPrefix}}
	for _, opt := range opts {
		opt(&s.keys)
	}
	return s
}

// Save replaces the graph stored under name. The value is a single SET, so
// readers never observe a partial document.
func (s *GraphStore) Save(ctx context.Context, name string, graph *domain.Graph) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}
	data, err := codec.Marshal(graph, codec.FormatJSON)
	if err != nil {
		return err
	}
	return s.keys.put(ctx, name, data)
}

// Load parses the graph stored under name.
func (s *GraphStore) Load(ctx context.Context, name string) (*domain.Graph, error) {
	data, err := s.keys.get(ctx, name)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.ErrGraphNotFound
	}
	return codec.Unmarshal(data, codec.FormatJSON)
}

// Delete removes the graph stored under name.
func (s *GraphStore) Delete(ctx context.Context, name string) error {
	return s.keys.del(ctx, name)
}

// List returns the stored graph names.
func (s *GraphStore) List(ctx context.Context) ([]string, error) {
	return s.keys.list(ctx)
}
