package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hrflow/internal/shared/apperror"
	"hrflow/internal/shared/response"
)

// Idempotency guards state-mutating POSTs against client retries. A repeat
// of an in-flight request with the same Idempotency-Key is rejected until
// the first one finishes; the lock expires on its own if the server dies.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		employeeID := c.GetString(KeyEmployeeID)
		lockKey := fmt.Sprintf("idemp:%s:%s:%s:lock", c.FullPath(), employeeID, idempKey)

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if err != nil {
			// Redis being down must not take the write path with it.
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict,
				"A request with this idempotency key is already being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_lock_key", lockKey)
		c.Next()

		rdb.Del(c.Request.Context(), lockKey)
	}
}
