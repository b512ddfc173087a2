package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/chrimage/atlas-divisions/ports"
)

// NewRouter sets up the Gin router
func NewRouter(h *Handlers, verifier ports.IdentityVerifier, logger *slog.Logger) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(pageTemplates())

	// Public site
	router.GET("/", h.Home)
	router.GET("/contact", h.ContactForm)
	router.GET("/contact-form", h.ContactForm) // legacy path
	router.POST("/submit", h.Submit)
	router.GET("/healthz", h.Healthz)

	// Admin panel
	admin := router.Group("/admin")
	admin.Use(IdentityMiddleware(verifier, logger))
	{
		admin.GET("", h.Admin)
		admin.POST("/update", h.UpdateStatus)
	}

	return router
}
