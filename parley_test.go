package parley_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: "1"
    text: Hello
    choices:
      - text: Bye
        targetNodeId: "2"
  - id: "2"
    text: Goodbye
`), 0644))

	g, err := parley.Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	n, ok := g.FindNode("1")
	require.True(t, ok)
	assert.Equal(t, "2", n.Choices[0].TargetNodeID)

	_, err = parley.Open(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, parley.Version)
}
