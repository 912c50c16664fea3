package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLatestCommand = "failed to load latest command"
	errIssueCommand  = "failed to issue command"
	errMarkExecuted  = "failed to mark command executed"
)

// CommandRequest is a manual actuator command.
type CommandRequest struct {
	// Allowed: stop, move
	Command              models.Command `json:"command" binding:"required" example:"move"`
	TriggeredByReadingID *int64         `json:"triggered_by_reading_id"`
	Notes                *string        `json:"notes"`
}

// ExecutedRequest optionally carries the device-side execution time.
type ExecutedRequest struct {
	ExecutedAt time.Time `json:"executed_at" example:"2025-10-26T09:30:00Z"`
}

// @Summary      Latest actuator command
// @Tags         actuator
// @Produce      json
// @Success      200  {object}  models.ActuatorState
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/actuator/latest [get]
func (h *Handler) latestCommand(c *gin.Context) {
	cmd, err := h.services.Actuator.LatestCommand(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errLatestCommand, "actuator_latest_failed")
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// @Summary      Issue actuator command
// @Tags         actuator
// @Accept       json
// @Produce      json
// @Param        body  body      CommandRequest  true  "Command"
// @Success      201   {object}  models.ActuatorState
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/actuator/commands [post]
func (h *Handler) issueCommand(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	cmd, err := h.services.Actuator.IssueCommand(c.Request.Context(), service.CommandParams{
		Command:   req.Command,
		ReadingID: req.TriggeredByReadingID,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err, errIssueCommand, "actuator_issue_failed", "command", req.Command)
		return
	}
	c.JSON(http.StatusCreated, cmd)
}

// @Summary      Mark command executed
// @Description  Called by the device after driving the servo. Body is optional; executed_at defaults to now.
// @Tags         actuator
// @Accept       json
// @Produce      json
// @Param        id    path      int              true   "Command id"
// @Param        body  body      ExecutedRequest  false  "Execution time"
// @Success      200   {object}  models.ActuatorState
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/actuator/commands/{id}/executed [post]
func (h *Handler) markExecuted(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ExecutedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	cmd, err := h.services.Actuator.MarkExecuted(c.Request.Context(), id, req.ExecutedAt)
	if err != nil {
		h.respondError(c, err, errMarkExecuted, "actuator_mark_executed_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, cmd)
}
