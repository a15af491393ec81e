package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminOnly gin.HandlerFunc) {
	theatres := g.Group("/theatres")
	theatres.Use(authMiddleware)
	{
		theatres.GET("", h.ListTheatres)
		theatres.GET("/:id", h.GetTheatre)
		theatres.POST("", adminOnly, h.CreateTheatre)
		theatres.DELETE("/:id", adminOnly, h.DeactivateTheatre)
		theatres.POST("/:id/maintenance", adminOnly, h.PlaceInMaintenance)
		theatres.DELETE("/:id/maintenance", adminOnly, h.EndMaintenance)
		theatres.POST("/:id/release", h.ReleaseTheatre)
	}

	schedules := g.Group("/theatre-schedules")
	schedules.Use(authMiddleware)
	{
		schedules.GET("", h.ListSchedules)
		schedules.GET("/:id", h.GetSchedule)
		schedules.POST("", h.CreateSchedule)
		schedules.POST("/:id/start", h.StartSurgery)
		schedules.POST("/:id/complete", h.CompleteSurgery)
		schedules.POST("/:id/cancel", h.CancelSchedule)
		schedules.POST("/:id/postpone", h.PostponeSchedule)
		schedules.GET("/:id/team", h.ListTeam)
		schedules.POST("/:id/team", h.AddTeamMember)
		schedules.GET("/:id/consumables", h.ListConsumables)
		schedules.POST("/:id/consumables", h.AddConsumable)
	}
}
