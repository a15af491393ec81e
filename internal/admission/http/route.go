package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/admissions")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Admit)
		group.POST("/:id/discharge", h.Discharge)
		group.GET("/:id/notes", h.ListNursingNotes)
		group.POST("/:id/notes", h.AddNursingNote)
	}
}
