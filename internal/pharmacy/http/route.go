package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, pharmacistOnly gin.HandlerFunc) {
	drugs := g.Group("/drugs")
	drugs.Use(authMiddleware)
	{
		drugs.GET("", h.ListDrugs)
		drugs.GET("/:id", h.GetDrug)
		drugs.GET("/:id/batches", h.ListBatches)
		drugs.POST("", pharmacistOnly, h.CreateDrug)
		drugs.DELETE("/:id", pharmacistOnly, h.DeactivateDrug)
	}

	inventory := g.Group("/inventory")
	inventory.Use(authMiddleware)
	{
		inventory.POST("/batches", pharmacistOnly, h.AddBatch)
	}

	dispenses := g.Group("/dispenses")
	dispenses.Use(authMiddleware)
	{
		dispenses.GET("", h.ListDispenses)
		dispenses.GET("/:id", h.GetDispense)
		dispenses.POST("", pharmacistOnly, h.Allocate)
	}
}
