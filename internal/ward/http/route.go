package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminOnly gin.HandlerFunc) {
	wards := g.Group("/wards")
	wards.Use(authMiddleware)
	{
		wards.GET("", h.ListWards)
		wards.GET("/:id", h.GetWard)
		wards.GET("/:id/beds", h.ListBeds)
		wards.POST("", adminOnly, h.CreateWard)
		wards.PATCH("/:id", adminOnly, h.UpdateWard)
		wards.DELETE("/:id", adminOnly, h.DeactivateWard)
	}

	beds := g.Group("/beds")
	beds.Use(authMiddleware)
	{
		beds.GET("/:id", h.GetBed)
		beds.POST("", adminOnly, h.CreateBed)
		beds.DELETE("/:id", adminOnly, h.DeactivateBed)
	}
}
