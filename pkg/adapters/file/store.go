package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
)

// rename is swapped in tests to fail the final step of Save.
var rename = os.Rename

// Store implements ports.GraphStore using the local filesystem.
// Names are file paths; relative names resolve against BasePath and the
// extension selects the format (.yaml/.yml or JSON).
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to the current directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "."
	}
	return &Store{BasePath: basePath}
}

// Path resolves a graph name to the file it is stored in.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.BasePath, name)
}

// Save persists the graph atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, graph *domain.Graph) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}

	destPath := s.Path(name)
	dir := filepath.Dir(destPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure graph directory: %w", err)
	}

	data, err := codec.Marshal(graph, codec.FormatFromPath(destPath))
	if err != nil {
		return err
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename replaces an existing destination atomically, so a failure
	// leaves the previous file in place.
	if err := rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to graph file: %w", err)
	}

	return nil
}

// Load reads and parses the graph file.
func (s *Store) Load(ctx context.Context, name string) (*domain.Graph, error) {
	if name == "" {
		return nil, fmt.Errorf("graph name cannot be empty")
	}

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, path)
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	g, err := codec.Unmarshal(data, codec.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Delete removes the graph file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}

	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete graph file: %w", err)
	}
	return nil
}

// List returns the graph files directly under BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".yaml", ".yml":
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
