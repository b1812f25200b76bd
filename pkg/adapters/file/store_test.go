package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunGraphStoreContract(t, store, "contract.json")
}

func TestFileStore_Contract_YAML(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunGraphStoreContract(t, store, "contract.yaml")
}

func TestFileStore_AbsolutePathIgnoresBase(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "unused"))
	target := filepath.Join(dir, "nested", "dialogue.json")

	g := domain.NewGraph(&domain.Node{ID: "1", Text: "Hello"})
	require.NoError(t, store.Save(context.Background(), target, g))

	_, err := os.Stat(target)
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, "Hello", loaded.Nodes[0].Text)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, "dialogue.json", domain.NewGraph()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dialogue.json", entries[0].Name())
}

func TestFileStore_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"nodes": [`), 0644))

	_, err := file.New(dir).Load(context.Background(), "broken.json")
	require.Error(t, err)
	assert.True(t, codec.IsParseError(err))
}

func TestFileStore_LoadMissing(t *testing.T) {
	_, err := file.New(t.TempDir()).Load(context.Background(), "missing.json")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestFileStore_ListSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", "tmp-a.json-123"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	names, err := file.New(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.yaml"}, names)
}
