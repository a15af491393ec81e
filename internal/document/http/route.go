package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	documents := g.Group("/documents")
	documents.Use(authMiddleware)
	{
		documents.POST("", h.Upload)
		documents.GET("/:id", h.Serve)
		documents.GET("/:id/thumbnail", h.ServeThumbnail)
		documents.DELETE("/:id", h.Delete)
	}

	patients := g.Group("/patients")
	patients.Use(authMiddleware)
	{
		patients.GET("/:id/documents", h.ListByPatient)
	}
}
