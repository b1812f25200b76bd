package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// GraphStore defines how whole dialogue graphs are persisted.
// The name is adapter specific: a file path for the file store, a key for Redis.
type GraphStore interface {
	// Save replaces the graph stored under name. Implementations must not
	// leave a partially written graph behind on failure.
	Save(ctx context.Context, name string, graph *domain.Graph) error

	// Load returns the graph stored under name.
	// Returns domain.ErrGraphNotFound if nothing is stored there, and a
	// *codec.ParseError if the stored document is malformed.
	Load(ctx context.Context, name string) (*domain.Graph, error)

	// Delete removes the graph stored under name.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored graphs.
	List(ctx context.Context) ([]string, error)
}
