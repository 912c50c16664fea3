package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"
	"sensor_dashboard/internal/supabase"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
	errInvalidID       = "invalid id; expected a positive integer"
	errNotFound        = "not found"
	errUpstream        = "upstream database unavailable"
)

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidValue), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	}
	if apiErr, ok := supabase.IsAPIError(err); ok && apiErr.Temporary() {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Centralized error logging and response. Client errors echo the cause;
// server errors return userMsg and log the cause under logKey.
func (h *Handler) respondError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	code := statusFor(err)
	switch code {
	case http.StatusBadRequest:
		c.JSON(code, gin.H{"error": err.Error()})
		return
	case http.StatusNotFound:
		c.JSON(code, gin.H{"error": errNotFound})
		return
	case http.StatusBadGateway:
		userMsg = errUpstream
	}
	h.logAndJSONError(c, code, userMsg, logKey, err, kv...)
}

func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestID(c)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}
