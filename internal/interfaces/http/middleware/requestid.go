// Package middleware provides the gin middleware of the detection API:
// request ids, request logging, metrics, CORS, rate limiting and body limits.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/pkg/types/common"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID reuses a client-supplied X-Request-ID or generates one, stores it
// on the gin context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = common.NewRequestID()
		}
		c.Set(string(common.ContextKeyRequestID), id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the id installed by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(common.ContextKeyRequestID))
}

//Personal.AI order the ending
