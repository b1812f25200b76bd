package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// farFuture scores entries that never expire (2100-01-01).
const farFuture = 4102444800

// keyspace stores opaque values under prefix+id and keeps a sorted-set index
// at prefix+"index" scored by expiry time, so List survives key expiration.
type keyspace struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

func (k *keyspace) key(id string) string {
	return k.prefix + id
}

func (k *keyspace) indexKey() string {
	return k.prefix + "index"
}

func (k *keyspace) put(ctx context.Context, id string, data []byte) error {
	score := float64(time.Now().Add(k.ttl).Unix())
	if k.ttl == 0 {
		score = farFuture
	}

	pipe := k.client.Pipeline()
	pipe.Set(ctx, k.key(id), data, k.ttl) // 0 means no expiration
	pipe.ZAdd(ctx, k.indexKey(), backend.Z{Score: score, Member: id})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// get returns the stored bytes, or nil with no error when the key is absent.
func (k *keyspace) get(ctx context.Context, id string) ([]byte, error) {
	val, err := k.client.Get(ctx, k.key(id)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

func (k *keyspace) del(ctx context.Context, id string) error {
	pipe := k.client.Pipeline()
	pipe.Del(ctx, k.key(id))
	pipe.ZRem(ctx, k.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// list prunes expired index entries lazily and returns the rest.
func (k *keyspace) list(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := k.client.ZRemRangeByScore(ctx, k.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}

	ids, err := k.client.ZRange(ctx, k.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return ids, nil
}
