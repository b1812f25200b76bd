package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewPlaybackState()
		state.CurrentNodeID = "2"
		state.Status = domain.StatusDisplaying
		state.AwaitingChoice = true
		state.History = []string{"1", "2"}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state, loaded)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.History[0] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "1", again.History[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewPlaybackState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewPlaybackState())
		_ = store.Save(ctx, id2, domain.NewPlaybackState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunGraphStoreContract verifies that a GraphStore implementation adheres to
// the interface contract. name must be a valid, unused name for the store.
func RunGraphStoreContract(t *testing.T, store GraphStore, name string) {
	ctx := context.Background()

	sample := func() *domain.Graph {
		return domain.NewGraph(
			&domain.Node{
				ID:      "1",
				Text:    "Hello",
				Choices: []domain.Choice{{Text: "Bye", TargetNodeID: "2"}},
				Rect:    domain.Rect{X: 10, Y: 10, Width: 200, Height: 100},
			},
			&domain.Node{
				ID:      "2",
				Text:    "Goodbye",
				Choices: []domain.Choice{},
				Rect:    domain.Rect{X: 300, Y: 40, Width: 120, Height: 60},
			},
		)
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, sample())
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sample(), loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		g := sample()
		g.Nodes = g.Nodes[:1]
		g.Nodes[0].Text = "Replaced"
		require.NoError(t, store.Save(ctx, name, g))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		require.Equal(t, 1, loaded.Len())
		assert.Equal(t, "Replaced", loaded.Nodes[0].Text)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Nodes[0].Text = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Nodes[0].Text)
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrGraphNotFound, "Load after Delete should return ErrGraphNotFound")
	})
}
