package apis

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitPrefix = "rate_limit:"

// RedisRateLimiterStore is a fixed-window echo RateLimiterStore shared by
// every instance that talks to the same Redis.
type RedisRateLimiterStore struct {
	rdb     redis.UniversalClient
	limit   int
	window  time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewRedisRateLimiterStore(rdb redis.UniversalClient, limit int, window time.Duration, logger *zap.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

// Allow counts the request in the current window. A Redis failure lets the
// request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	windowStart := time.Now().Truncate(s.window).Unix()
	key := fmt.Sprintf("%s%s:%d", rateLimitPrefix, identifier, windowStart)

	pipe := s.rdb.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("rate limiter unavailable", zap.String("identifier", identifier), zap.Error(err))
		return true, nil
	}

	return count.Val() <= int64(s.limit), nil
}

// NewRateLimiterStore uses Redis when rdb is set and an in-process token
// bucket otherwise.
func NewRateLimiterStore(rdb redis.UniversalClient, limit int, window time.Duration, logger *zap.Logger) middleware.RateLimiterStore {
	if rdb != nil {
		return NewRedisRateLimiterStore(rdb, limit, window, logger)
	}
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})
}
