package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the TTL only while the key still holds our token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLocker is a cross-process run lock. The TTL bounds how long a crashed
// holder can block other instances; a live holder refreshes it every ttl/3.
type RedisLocker struct {
	client       lockClient
	key          string
	ttl          time.Duration
	refreshEvery time.Duration
	logger       *slog.Logger
}

func NewRedisLocker(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return newRedisLocker(client, key, ttl, logger)
}

func newRedisLocker(client lockClient, key string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client:       client,
		key:          key,
		ttl:          ttl,
		refreshEvery: ttl / 3,
		logger:       logger,
	}
}

func (l *RedisLocker) TryLock(ctx context.Context) (func(), error) {
	token := uuid.New().String()
	acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SETNX %s: %w", l.key, err)
	}
	if !acquired {
		return nil, domain.ErrRunInProgress
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepAlive(token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()

			// the run context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
				l.logger.Error("failed to release run lock", "key", l.key, "error", err)
			}
		})
	}, nil
}

// keepAlive extends the lock until stop is closed or the token is no longer ours.
func (l *RedisLocker) keepAlive(token string, stop <-chan struct{}) {
	if l.refreshEvery <= 0 {
		return
	}
	ticker := time.NewTicker(l.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.refreshEvery)
			extended, err := refreshScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int64()
			cancel()
			if err != nil {
				l.logger.Error("failed to refresh run lock", "key", l.key, "error", err)
				continue
			}
			if extended == 0 {
				l.logger.Warn("run lock lost, another instance may start a run", "key", l.key)
				return
			}
		}
	}
}
