package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// SetupRoutes configures all routes
func SetupRoutes(h *Handlers, maxUploadMB int) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = int64(maxUploadMB) << 20
	router.Use(limitBody(int64(maxUploadMB) << 20))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/", h.Index)
	router.POST("/upload", h.Upload)

	api := router.Group("/api")
	{
		api.GET("/runs", h.Runs)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// limitBody caps request bodies at n bytes.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
