package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListLogs    = "failed to load logs"
	errAppendLog   = "failed to store log"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// AppendLogRequest is a log line sent by the device or the edge function.
type AppendLogRequest struct {
	LogLevel models.LogLevel `json:"log_level" binding:"required" example:"warning"`
	Source   string          `json:"source" binding:"required" example:"esp8266"`
	Message  string          `json:"message" binding:"required" example:"wifi reconnected"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         logs
// @Produce      json
// @Param        from    query   string  false  "Start of range"  example(2025-10-01)
// @Param        to      query   string  false  "End of range. Date-only treated as end of day."  example(2025-10-31)
// @Param        level   query   string  false  "Log level"  Enums(info,warning,error)
// @Param        source  query   string  false  "Source, e.g. edge-function"
// @Param        limit   query   int     false  "Max rows (default 100, max 1000)"
// @Success      200     {object}  map[string]interface{}  "count, logs"
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	from, to, ok := parseRange(c, "from", "to", errFromInvalid, errToInvalid)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	level := c.Query("level")
	source := c.Query("source")

	logs, err := h.services.SystemLog.ListLogs(c.Request.Context(), service.LogFilter{
		From:   from,
		To:     to,
		Level:  level,
		Source: source,
		Limit:  limit,
	})
	if err != nil {
		h.respondError(c, err, errListLogs, "logs_list_failed", "from", from, "to", to, "level", level)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}

// @Summary      Append a log line
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body      AppendLogRequest  true  "Log line"
// @Success      201   {object}  models.SystemLog
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [post]
func (h *Handler) appendLog(c *gin.Context) {
	var req AppendLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	row, err := h.services.SystemLog.AppendLog(c.Request.Context(), models.SystemLogInsert{
		LogLevel: req.LogLevel,
		Source:   req.Source,
		Message:  req.Message,
	})
	if err != nil {
		h.respondError(c, err, errAppendLog, "log_append_failed", "source", req.Source)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-10-26T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
