package router

import (
	"github.com/gin-gonic/gin"

	"taxmitra/internal/handler"
	"taxmitra/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(reportH *handler.ReportHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	reports := v1.Group("/reports")
	reports.POST("/filing", reportH.Filing)
	reports.POST("/filing/export", reportH.FilingExport)

	return r
}
