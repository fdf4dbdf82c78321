package lock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "deskly:lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	opts   Options
}

func NewRedisLocker(client *redis.Client, opts Options) *RedisLocker {
	return &RedisLocker{client: client, opts: opts}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	return acquire(ctx, "redis", l.opts, func(ctx context.Context) (Release, error) {
		return l.tryAcquire(ctx, key)
	})
}

func (l *RedisLocker) tryAcquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	redisKey := redisKeyPrefix + key

	ok, err := l.client.SetNX(ctx, redisKey, token, l.opts.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", redisKey, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			return fmt.Errorf("redis release %s: %w", redisKey, err)
		}
		return nil
	}, nil
}
