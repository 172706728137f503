// Package router registers the aide HTTP routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aide-dev/aide/internal/aide/handler"
	"github.com/aide-dev/aide/pkg/middleware"
)

// Register installs middleware and routes on the engine.
func Register(engine *gin.Engine, docs *handler.DocumentHandler, search *handler.SearchHandler, ask *handler.AskHandler) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger("/healthz"),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/documents", docs.Upload)
		api.GET("/documents/:id", docs.Download)
		api.POST("/search", search.Search)
		api.POST("/ask", ask.Ask)
	}
}
