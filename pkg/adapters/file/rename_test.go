package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/pkg/domain"
)

func TestSave_FailedRenameKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dialogue.json", domain.NewGraph(&domain.Node{ID: "old"})))
	before, err := os.ReadFile(filepath.Join(dir, "dialogue.json"))
	require.NoError(t, err)

	rename = func(string, string) error { return errors.New("cross-device link") }
	t.Cleanup(func() { rename = os.Rename })

	err = store.Save(ctx, "dialogue.json", domain.NewGraph(&domain.Node{ID: "new"}))
	assert.ErrorContains(t, err, "cross-device link")

	after, err := os.ReadFile(filepath.Join(dir, "dialogue.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	g, err := store.Load(ctx, "dialogue.json")
	require.NoError(t, err)
	assert.Equal(t, "old", g.Nodes[0].ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestSave_OverwriteReplacesContents(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "dialogue.yaml", domain.NewGraph(&domain.Node{ID: "old"})))
	require.NoError(t, store.Save(ctx, "dialogue.yaml", domain.NewGraph(&domain.Node{ID: "new"}, &domain.Node{ID: "b"})))

	g, err := store.Load(ctx, "dialogue.yaml")
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	assert.Equal(t, "new", g.Nodes[0].ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
