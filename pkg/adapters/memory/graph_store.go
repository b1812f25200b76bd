package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// GraphStore implements ports.GraphStore in memory.
// Graphs are cloned on the way in and out. Safe for concurrent use.
type GraphStore struct {
	graphs map[string]*domain.Graph
	mu     sync.RWMutex
}

// NewGraphStore creates an empty in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		graphs: make(map[string]*domain.Graph),
	}
}

// Save stores a copy of graph under name.
func (s *GraphStore) Save(ctx context.Context, name string, graph *domain.Graph) error {
	c := graph.Clone()
	c.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[name] = c
	return nil
}

// Load returns a copy of the graph stored under name.
func (s *GraphStore) Load(ctx context.Context, name string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.graphs[name]
	if !ok {
		return nil, domain.ErrGraphNotFound
	}
	return g.Clone(), nil
}

// Delete removes the graph stored under name.
func (s *GraphStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, name)
	return nil
}

// List returns the stored names in lexical order.
func (s *GraphStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.graphs))
	for name := range s.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
