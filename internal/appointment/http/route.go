package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/appointments")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/slots", h.Slots)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id/reschedule", h.Reschedule)
		group.POST("/:id/confirm", h.Confirm)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/complete", h.Complete)
	}
}
