package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Header carries the request ID on both the request and the response.
	Header = "X-Request-ID"

	contextKey = "request_id"

	// maxInboundLength caps IDs forwarded by upstream proxies so log lines
	// stay bounded.
	maxInboundLength = 128
)

// Middleware tags every request with an ID. An inbound X-Request-ID is kept
// so log lines correlate across the proxy chain; otherwise a fresh UUID is
// minted.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the request ID stored in the Gin context, or an empty string
// outside the middleware.
func Value(c *gin.Context) string {
	v, _ := c.Get(contextKey)
	id, _ := v.(string)
	return id
}
