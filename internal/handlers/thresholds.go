package handlers

import (
	"net/http"

	"sensor_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListThresholds  = "failed to load thresholds"
	errCreateThreshold = "failed to create threshold"
	errUpdateThreshold = "failed to update threshold"
)

// ThresholdRequest creates a threshold. is_active defaults to true.
type ThresholdRequest struct {
	SensorName         string                    `json:"sensor_name" binding:"required" example:"sensor_1"`
	ThresholdValue     *float64                  `json:"threshold_value" binding:"required" example:"30"`
	ComparisonOperator models.ComparisonOperator `json:"comparison_operator" binding:"required" example:">"`
	IsActive           *bool                     `json:"is_active" example:"true"`
}

// @Summary      List thresholds
// @Tags         thresholds
// @Produce      json
// @Param        active  query     bool  false  "Only active thresholds"
// @Success      200     {object}  map[string]interface{}  "count, thresholds"
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/thresholds [get]
func (h *Handler) listThresholds(c *gin.Context) {
	activeOnly := c.Query("active") == "true" || c.Query("active") == "1"
	items, err := h.services.Thresholds.ListThresholds(c.Request.Context(), activeOnly)
	if err != nil {
		h.respondError(c, err, errListThresholds, "thresholds_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      len(items),
		"thresholds": items,
	})
}

// @Summary      Create threshold
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        body  body      ThresholdRequest  true  "Threshold"
// @Success      201   {object}  models.ThresholdConfig
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/thresholds [post]
func (h *Handler) createThreshold(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	th, err := h.services.Thresholds.CreateThreshold(c.Request.Context(), models.ThresholdConfigInsert{
		SensorName:         req.SensorName,
		ThresholdValue:     *req.ThresholdValue,
		ComparisonOperator: req.ComparisonOperator,
		IsActive:           active,
	})
	if err != nil {
		h.respondError(c, err, errCreateThreshold, "threshold_create_failed", "sensor_name", req.SensorName)
		return
	}
	c.JSON(http.StatusCreated, th)
}

// @Summary      Update threshold
// @Description  Partial update; only supplied fields change. updated_at is refreshed.
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "Threshold id"
// @Param        body  body      models.ThresholdConfigUpdate  true  "Fields to change"
// @Success      200   {object}  models.ThresholdConfig
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/thresholds/{id} [patch]
func (h *Handler) updateThreshold(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.ThresholdConfigUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	th, err := h.services.Thresholds.UpdateThreshold(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err, errUpdateThreshold, "threshold_update_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, th)
}
