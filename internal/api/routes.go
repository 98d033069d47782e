package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically. metricsHandler may be nil.
func RegisterRoutes(router *gin.Engine, h *APIHandler, metricsHandler http.Handler) {

	// --- Project Lifecycle ---
	projectGroup := router.Group("/project")
	{
		projectGroup.POST("/generate", h.GenerateSite)    // Generate a website from a business description
		projectGroup.GET("/:id", h.GetProject)            // Full generated website, for the live editor
		projectGroup.GET("/:id/files", h.GetProjectFiles) // index.html and styles.css, for the exporter
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
