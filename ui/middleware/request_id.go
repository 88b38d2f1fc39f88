package middleware

import (
	"salesdash/domain/core"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the per-request id back to the client
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the id
const requestIDKey = "request_id"

// RequestID tags every request with an id, reusing a well-formed one sent
// by the client
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := core.ID(c.GetHeader(RequestIDHeader))
		if _, err := core.ParseMountID(id.String()); err != nil {
			id = core.NewID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// GetRequestID returns the id RequestID assigned to c
func GetRequestID(c *gin.Context) core.ID {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(core.ID); ok {
			return id
		}
	}
	return ""
}

// NoStore marks responses as uncacheable. Fragments and exports reflect
// whatever the dataset host serves at request time.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
