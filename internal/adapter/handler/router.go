package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	analyzeHandler *AnalyzeHandler
	reportHandler  *ReportHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, analyzeHandler *AnalyzeHandler, reportHandler *ReportHandler) *Router {
	return &Router{
		cfg:            cfg,
		analyzeHandler: analyzeHandler,
		reportHandler:  reportHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")
	api.POST("/analyze", rt.analyzeHandler.Analyze)
	api.POST("/report", rt.reportHandler.Create)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
