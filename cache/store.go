// Package cache is the ephemeral key-value layer: daily markers and end-game
// votes. Redis is preferred; a process-local store stands in when Redis is not
// reachable.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the set of operations the engines need from the ephemeral layer.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// AddToSet adds member to the set at key stamped with the current time, and
	// refreshes the key's TTL when the member is new. It reports whether the
	// member was added and the set size afterwards, as one atomic step.
	AddToSet(ctx context.Context, key, member string, ttl time.Duration) (added bool, size int64, err error)
	// SetMembers returns member -> unix millis of when it was added. An absent
	// key yields an empty map.
	SetMembers(ctx context.Context, key string) (map[string]int64, error)
}

// Open returns a Redis-backed store when rdb answers a ping, otherwise the
// in-memory fallback, swept until ctx is done.
func Open(ctx context.Context, rdb *redis.Client, log *zap.Logger) Store {
	if log == nil {
		log = zap.NewNop()
	}
	if rdb != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rdb.Ping(pctx).Err()
		if err == nil {
			log.Info("ephemeral store: redis")
			return NewRedis(rdb)
		}
		log.Warn("redis unavailable, using in-memory ephemeral store", zap.Error(err))
	}
	mem := NewMemory()
	mem.StartSweeper(ctx, DefaultSweepInterval)
	return mem
}
