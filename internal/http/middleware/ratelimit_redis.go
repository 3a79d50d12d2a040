package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskquest/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RateLimiter implements fixed-window limits with Redis INCR/EXPIRE. With a
// nil client it counts in process memory; on Redis errors it fails open.
type RateLimiter struct {
	client *redis.Client
	local  *memoryWindow
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, local: newMemoryWindow()}
}

// ConnectRedis returns a client for addr, or nil when addr is empty or the
// server does not answer a ping.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory limits", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// ByIP limits requests per client IP.
// key format: rl:<scope>:<window_seconds>:<ip>
func (l *RateLimiter) ByIP(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + scope + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		l.limit(c, key, scope, maxRequests, window)
	}
}

// ByUser limits requests per authenticated user. Requires JWT to run first.
func (l *RateLimiter) ByUser(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		key := "user_rl:" + strconv.FormatInt(id.UserID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		l.limit(c, key, "user", maxRequests, window)
	}
}

func (l *RateLimiter) limit(c *gin.Context, key, scope string, maxRequests int, window time.Duration) {
	if maxRequests <= 0 {
		c.Next()
		return
	}

	val, err := l.incr(c.Request.Context(), key, window)
	if err != nil {
		// fail-open
		c.Header("X-RateLimit-Error", "redis-error")
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	endpoint := scope + ":" + c.FullPath()
	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
		abortError(c, http.StatusTooManyRequests, "rate limit exceeded", "rate_limited")
		return
	}

	RLRequests.WithLabelValues(endpoint).Inc()
	c.Next()
}

func (l *RateLimiter) incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if l.client == nil {
		return l.local.incr(key, window), nil
	}

	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		l.client.Expire(ctx, key, window)
	}
	return val, nil
}
