package middleware

import (
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisRateLimiter 固定窗口计数，多实例共享同一个 redis
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Limit 按 IP 限流；redis 不可用时放行
func (rl *RedisRateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.client == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.ClientIP())

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			logger.Log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			rl.client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.client.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%.0f", ttl.Seconds()))
			util.Error(c, http.StatusTooManyRequests, util.KindRateLimited, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
