package handlers

import (
	"net/http"
	"strconv"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errIngest        = "failed to store reading"
	errListReadings  = "failed to load readings"
	errLatestReading = "failed to load latest reading"
	errLimitInvalid  = "invalid 'limit'; expected a positive integer"
	errSinceInvalid  = "invalid 'since' time; use RFC3339 or YYYY-MM-DD"
	errUntilInvalid  = "invalid 'until' time; use RFC3339 or YYYY-MM-DD"
)

// IngestRequest is one device sample. sensor_3_value may be null while the gas sensor warms up.
type IngestRequest struct {
	Sensor1Value *float64 `json:"sensor_1_value" binding:"required" example:"27.4"`
	Sensor2Value *float64 `json:"sensor_2_value" binding:"required" example:"61"`
	Sensor3Value *float64 `json:"sensor_3_value" example:"312"`
	Notes        *string  `json:"notes"`
}

// IngestResponse reports the stored reading and any command it triggered.
type IngestResponse struct {
	Reading       models.SensorReading  `json:"reading"`
	ThresholdsMet bool                  `json:"thresholds_met"`
	Command       *models.ActuatorState `json:"command"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Ingest a sensor sample
// @Description  Evaluates active thresholds, stores the reading and issues an actuator command when the desired one changes.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body      IngestRequest  true  "Sample"
// @Success      201   {object}  IngestResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/readings [post]
func (h *Handler) ingestReading(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	res, err := h.services.Readings.Ingest(c.Request.Context(), service.Sample{
		Sensor1: *req.Sensor1Value,
		Sensor2: *req.Sensor2Value,
		Sensor3: req.Sensor3Value,
		Notes:   req.Notes,
	})
	if err != nil {
		h.respondError(c, err, errIngest, "reading_ingest_failed")
		return
	}
	c.JSON(http.StatusCreated, IngestResponse{
		Reading:       res.Reading,
		ThresholdsMet: res.ThresholdsMet,
		Command:       res.Command,
	})
}

// @Summary      List readings
// @Description  Newest first. 'until' given as a date only covers that whole day.
// @Tags         readings
// @Produce      json
// @Param        since  query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        until  query     string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        limit  query     int     false  "Max rows (default 100, max 1000)"
// @Success      200    {object}  map[string]interface{}  "count, readings"
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/readings [get]
func (h *Handler) listReadings(c *gin.Context) {
	since, until, ok := parseRange(c, "since", "until", errSinceInvalid, errUntilInvalid)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	readings, err := h.services.Readings.ListReadings(c.Request.Context(), service.ReadingQuery{
		Since: since,
		Until: until,
		Limit: limit,
	})
	if err != nil {
		h.respondError(c, err, errListReadings, "readings_list_failed", "since", since, "until", until)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Latest reading
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.SensorReading
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings/latest [get]
func (h *Handler) latestReading(c *gin.Context) {
	r, err := h.services.Readings.LatestReading(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errLatestReading, "reading_latest_failed")
		return
	}
	c.JSON(http.StatusOK, r)
}

// parseRange reads two optional time bounds. A date-only upper bound is
// extended to the end of that day.
func parseRange(c *gin.Context, fromKey, toKey, fromErr, toErr string) (time.Time, time.Time, bool) {
	var from, to time.Time
	var err error
	if qs := c.Query(fromKey); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fromErr})
			return time.Time{}, time.Time{}, false
		}
	}
	if qs := c.Query(toKey); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": toErr})
			return time.Time{}, time.Time{}, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	return from, to, true
}

func parseLimit(c *gin.Context) (int, bool) {
	qs := c.Query("limit")
	if qs == "" {
		return 0, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return 0, false
	}
	return n, true
}
