package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

// Idempotency replays the stored result of a POST carrying the same
// Idempotency-Key for the same user, and rejects a concurrent duplicate
// while the first one is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if rdb == nil || key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString(KeyUserID), key)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var data any
			if json.Unmarshal([]byte(cached), &data) == nil {
				response.Success(c, http.StatusOK, data, nil)
				c.Abort()
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err == nil && !acquired {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "Request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)
		c.Next()

		rdb.Del(ctx, lockKey)
	}
}

// RememberResult stores a successful handler result for replay. No-op when
// the request did not go through Idempotency.
func RememberResult(c *gin.Context, rdb *redis.Client, data any) {
	cacheKey := c.GetString(idempotencyCacheKey)
	if rdb == nil || cacheKey == "" {
		return
	}
	if payload, err := json.Marshal(data); err == nil {
		_ = rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL).Err()
	}
}
