package parley

import (
	"context"
	"fmt"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/runner"
)

// Open loads the dialogue stored at path. The extension selects the format.
func Open(ctx context.Context, path string) (*domain.Graph, error) {
	g, err := file.New(".").Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return g, nil
}

// NewRunner creates a terminal playback loop.
func NewRunner(opts ...runner.Option) *runner.Runner {
	return runner.NewRunner(opts...)
}
