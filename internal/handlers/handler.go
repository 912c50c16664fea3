package handlers

import (
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Live snapshot stream (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerReadingRoutes(api)
		h.registerActuatorRoutes(api)
		h.registerThresholdRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	readings := api.Group("/readings")
	{
		// Body example: {"sensor_1_value":27.4,"sensor_2_value":61,"sensor_3_value":312}
		readings.POST("", h.ingestReading)
		readings.GET("", h.listReadings)
		readings.GET("/latest", h.latestReading)
	}
}

func (h *Handler) registerActuatorRoutes(api *gin.RouterGroup) {
	actuator := api.Group("/actuator")
	{
		actuator.GET("/latest", h.latestCommand)
		// Body example: {"command":"move","notes":"manual test"}
		actuator.POST("/commands", h.issueCommand)
		actuator.POST("/commands/:id/executed", h.markExecuted)
	}
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	thresholds := api.Group("/thresholds")
	{
		thresholds.GET("", h.listThresholds)
		thresholds.POST("", h.createThreshold)
		thresholds.PATCH("/:id", h.updateThreshold)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.POST("", h.appendLog)
	}
}
