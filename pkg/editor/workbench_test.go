package editor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDialog struct {
	save      string
	open      string
	suggested string
}

func (d *stubDialog) SavePath(suggested string) (string, bool) {
	d.suggested = suggested
	return d.save, d.save != ""
}

func (d *stubDialog) OpenPath() (string, bool) {
	return d.open, d.open != ""
}

func TestWorkbench_OpenIsIdempotent(t *testing.T) {
	wb := editor.NewWorkbench(memory.NewGraphStore(), &stubDialog{})

	_, ok := wb.Session()
	assert.False(t, ok)

	s1 := wb.Open()
	s2 := wb.Open()
	assert.Same(t, s1, s2)
}

func TestWorkbench_GraphOutlivesSession(t *testing.T) {
	wb := editor.NewWorkbench(memory.NewGraphStore(), &stubDialog{})

	h := wb.Open().AddNode()
	require.NoError(t, wb.Open().SetText(h, "kept"))
	wb.Close()

	_, ok := wb.Session()
	assert.False(t, ok)

	reopened := wb.Open()
	require.Equal(t, 1, reopened.Graph().Len())
	assert.Equal(t, "kept", reopened.Graph().Nodes[0].Text)
	assert.Same(t, wb.Graph(), reopened.Graph())
}

func TestWorkbench_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraphStore()
	dialog := &stubDialog{save: "story.json"}

	seed := domain.NewGraph(&domain.Node{ID: "1", Text: "Hello", NextID: "2", Choices: []domain.Choice{}, Rect: domain.DefaultNodeRect})
	wb := editor.NewWorkbench(store, dialog, editor.WithGraph(seed))

	path, err := wb.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "story.json", path)
	assert.Equal(t, editor.DefaultFileName, dialog.suggested)

	other := editor.NewWorkbench(store, &stubDialog{open: "story.json"})
	s := other.Open()
	s.AddNode()

	_, err = other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, other.Graph())

	// The open session now edits the loaded graph.
	assert.Same(t, other.Graph(), s.Graph())
	assert.Len(t, s.Handles(), 1)
}

func TestWorkbench_NoPathSelected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraphStore()
	wb := editor.NewWorkbench(store, &stubDialog{})
	wb.Open().AddNode()

	_, err := wb.Save(ctx)
	assert.ErrorIs(t, err, domain.ErrNoPathSelected)
	names, _ := store.List(ctx)
	assert.Empty(t, names)

	_, err = wb.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoPathSelected)
	assert.Equal(t, 1, wb.Graph().Len())
}

func TestWorkbench_FailedLoadKeepsGraph(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"nodes": [`), 0644))

	dialog := &stubDialog{open: "broken.json"}
	wb := editor.NewWorkbench(file.New(dir), dialog)
	s := wb.Open()
	h := s.AddNode()
	before := wb.Graph()

	_, err := wb.Load(ctx)
	require.Error(t, err)
	assert.True(t, codec.IsParseError(err))
	assert.Same(t, before, wb.Graph())
	_, ok := s.Lookup(h)
	assert.True(t, ok)

	dialog.open = "missing.json"
	_, err = wb.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
	assert.Same(t, before, wb.Graph())
}

func TestWorkbench_SavesThroughFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	wb := editor.NewWorkbench(file.New(dir), &stubDialog{save: "out.yaml", open: "out.yaml"})
	wb.Open().AddNode()
	saved := wb.Graph().Clone()

	_, err := wb.Save(ctx)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out.yaml"))

	_, err = wb.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, wb.Graph())
}

func TestWorkbench_FetchThenApply(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraphStore()
	require.NoError(t, store.Save(ctx, "story.json", domain.NewGraph(&domain.Node{ID: "a"}, &domain.Node{ID: "b"})))

	wb := editor.NewWorkbench(store, &stubDialog{open: "story.json", save: "copy.json"})
	s := wb.Open()
	s.AddNode()
	before := wb.Graph()

	path, g, err := wb.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "story.json", path)
	assert.Equal(t, 2, g.Len())
	assert.Same(t, before, wb.Graph(), "fetch leaves the workbench alone")

	wb.Apply(g)
	assert.Same(t, g, wb.Graph())
	assert.Same(t, g, s.Graph())
	assert.Len(t, s.Handles(), 2)

	snapshot := wb.Graph().Clone()
	s.AddNode()
	_, err = wb.SaveGraph(ctx, snapshot)
	require.NoError(t, err)
	saved, err := store.Load(ctx, "copy.json")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Len())
}
