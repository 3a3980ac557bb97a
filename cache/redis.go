package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// addToSetScript keeps the add, the TTL refresh and the size read in one round
// trip so concurrent voters on different instances see a consistent count.
var addToSetScript = redis.NewScript(`
local added = redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2])
if added == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return {added, redis.call('HLEN', KEYS[1])}
`)

// RedisStore implements Store on go-redis.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedis(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) AddToSet(ctx context.Context, key, member string, ttl time.Duration) (bool, int64, error) {
	at := s.now().UnixMilli()
	res, err := addToSetScript.Run(ctx, s.rdb, []string{key}, member, at, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis add to set %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis add to set %s: unexpected reply %v", key, res)
	}
	return res[0] == 1, res[1], nil
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis members %s: %w", key, err)
	}
	out := make(map[string]int64, len(raw))
	for m, v := range raw {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis members %s: bad stamp for %s: %w", key, m, err)
		}
		out[m] = ms
	}
	return out, nil
}
