// Package lock provides short-lived named locks guarding batch jobs.
package lock

import (
	"context"
	"sync"
	"time"

	"taskquest/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker acquires a named lock for at most ttl. When acquired is false the
// lock is held elsewhere and release is nil.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

// releaseScript deletes the key only if it still carries our token, so an
// expired lock re-acquired by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "lock:"}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	k := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
			logger.Warn("lock release failed", "key", k, "error", err)
		}
	}
	return release, true, nil
}

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]localLease
	now  func() time.Time
	seq  uint64
}

type localLease struct {
	id      uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localLease), now: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if lease, ok := l.held[key]; ok && now.Before(lease.expires) {
		return nil, false, nil
	}

	l.seq++
	id := l.seq
	l.held[key] = localLease{id: id, expires: now.Add(ttl)}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if lease, ok := l.held[key]; ok && lease.id == id {
			delete(l.held, key)
		}
	}
	return release, true, nil
}

// FallbackLocker tries Redis first and falls back to the local locker when
// Redis is unreachable, matching the fail-open rate limiter.
type FallbackLocker struct {
	primary  Locker
	fallback Locker
}

func NewFallbackLocker(primary, fallback Locker) *FallbackLocker {
	return &FallbackLocker{primary: primary, fallback: fallback}
}

func (l *FallbackLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	release, ok, err := l.primary.Acquire(ctx, key, ttl)
	if err == nil {
		return release, ok, nil
	}
	logger.Warn("redis lock unavailable, using local lock", "key", key, "error", err)
	return l.fallback.Acquire(ctx, key, ttl)
}
