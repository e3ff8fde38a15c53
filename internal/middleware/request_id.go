package middleware

import (
	"go-hrops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	KeyRequestID    = "request_id"
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLen = 100
)

// RequestID reuses a caller-supplied X-Request-ID when it fits the outbox
// column, otherwise mints one. The id is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}

		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
