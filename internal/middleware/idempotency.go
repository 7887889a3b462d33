package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	IdempotencyTTL    = 10 * time.Minute
)

// Idempotency rejects a replayed Idempotency-Key while the key is held. The
// key is released when the request fails so the client can retry. Requests
// without the header pass through.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := "idempotency:" + c.GetString(ContextUserID) + ":" + c.FullPath() + ":" + key

		ok, err := rdb.SetNX(ctx, redisKey, 1, ttl).Result()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("idempotency check skipped")
			c.Next()
			return
		}
		if !ok {
			httperr.Respond(c, httperr.ErrBusiness(httperr.CodeDuplicateSubmission))
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			rdb.Del(ctx, redisKey)
		}
	}
}
