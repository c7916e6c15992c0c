package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitMiddleware is a fixed one-minute window per client, counted in Redis.
// It lets requests through when Redis is missing or failing.
func RateLimitMiddleware(rdb *redis.Client, limit int64, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = 120
	}
	const window = time.Minute

	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		client := c.ClientIP()
		if viewer, ok := CurrentViewer(c); ok {
			client = "user:" + strconv.FormatUint(uint64(viewer.UserID), 10)
		}
		key := fmt.Sprintf("faculty:ratelimit:%s:%d", client, time.Now().Unix()/int64(window.Seconds()))

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("redis error during rate limiting", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		if count > limit {
			ttl, _ := rdb.TTL(ctx, key).Result()
			if ttl < 0 {
				ttl = window
			}
			logger.Warn("rate limit exceeded",
				zap.String("client", client),
				zap.Int64("limit", limit),
				zap.Int64("count", count))

			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       "rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": int(ttl.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limit-count, 10))
		c.Next()
	}
}
