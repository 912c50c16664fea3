package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "requestId"
	maxRequestIDLen = 128
)

// requestIDMiddleware propagates the caller's X-Request-ID or assigns a new UUID.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Debugw("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", requestID(c),
	)
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
