package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/parley/internal/config"
	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/persistence/middleware"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/spf13/cobra"
)

// backends holds the stores a command runs against.
type backends struct {
	Graphs   ports.GraphStore
	Sessions ports.StateStore
	Locker   ports.DistributedLocker
	close    func() error
}

func (b *backends) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackends builds the graph and session stores selected by flags and config.
func openBackends(cmd *cobra.Command, c *config.Config) (*backends, error) {
	graphDriver, _ := cmd.Flags().GetString("graph-store")
	b := &backends{}

	needRedis := graphDriver == "redis" || c.Store.Driver == "redis"
	var store *redis.Store
	if needRedis {
		client := redis.NewClient(c.Store.RedisAddr, c.Store.RedisPassword, c.Store.RedisDB)
		prefix := c.Store.Prefix
		if prefix == "" {
			prefix = redis.DefaultSessionPrefix
		}
		store = redis.NewFromClient(client, redis.WithPrefix(prefix), redis.WithTTL(c.Store.TTL))
		b.close = store.Close

		// Dialogues never expire and keep their own namespace.
		if graphDriver == "redis" {
			b.Graphs = redis.NewGraphStore(client)
		}
		if c.Store.Driver == "redis" {
			b.Sessions = store
			b.Locker = redis.NewLocker(client, prefix)
		}
	}

	switch graphDriver {
	case "file":
		b.Graphs = file.New(".")
	case "redis":
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown graph store %q", graphDriver)
	}

	switch c.Store.Driver {
	case "memory":
		b.Sessions = memory.NewStore()
	case "redis":
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown session store %q", c.Store.Driver)
	}

	if c.Store.EncryptionKey != "" {
		mw, err := encryption(c.Store)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Sessions = middleware.Chain(b.Sessions, mw)
		logger.Debug("Session encryption enabled", "fallback_keys", len(c.Store.FallbackKeys))
	}
	return b, nil
}

func encryption(c config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store encryption key: %w", err)
	}
	cfg := middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range c.FallbackKeys {
		k, err := middleware.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("store fallback key %d: %w", i, err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, k)
	}
	return middleware.NewEncryptionMiddleware(cfg)
}

// loadGraph reads the configured dialogue. A missing dialogue is an error
// unless allowMissing is set, in which case an empty graph is returned.
func loadGraph(ctx context.Context, store ports.GraphStore, name string, allowMissing bool) (*domain.Graph, error) {
	g, err := store.Load(ctx, name)
	if err != nil {
		if allowMissing && errors.Is(err, domain.ErrGraphNotFound) {
			logger.Info("Starting a new dialogue", "graph", name)
			return domain.NewGraph(), nil
		}
		return nil, fmt.Errorf("failed to load dialogue: %w", err)
	}
	logger.Debug("Dialogue loaded", "graph", name, "nodes", g.Len())
	return g, nil
}
