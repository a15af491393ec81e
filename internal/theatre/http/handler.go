package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
	"github.com/grandoak/hospital-backend/internal/theatre"
)

type Handler struct {
	service theatre.Service
}

func NewHandler(service theatre.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateTheatre(c *gin.Context) {
	var body CreateTheatreBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.CreateTheatre(c.Request.Context(), theatre.CreateTheatreRequest{
		Name:  body.Name,
		Floor: body.Floor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewTheatreResponse(t))
}

func (h *Handler) GetTheatre(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	t, err := h.service.GetTheatre(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTheatreResponse(t))
}

func (h *Handler) ListTheatres(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	theatres, total, err := h.service.ListTheatres(c.Request.Context(), params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TheatreResponse, len(theatres))
	for i, t := range theatres {
		items[i] = NewTheatreResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) DeactivateTheatre(c *gin.Context) {
	h.theatreAction(c, h.service.DeactivateTheatre)
}

func (h *Handler) PlaceInMaintenance(c *gin.Context) {
	h.theatreAction(c, h.service.PlaceInMaintenance)
}

func (h *Handler) EndMaintenance(c *gin.Context) {
	h.theatreAction(c, h.service.EndMaintenance)
}

func (h *Handler) ReleaseTheatre(c *gin.Context) {
	h.theatreAction(c, h.service.ReleaseTheatre)
}

func (h *Handler) theatreAction(c *gin.Context, op func(ctx context.Context, id string) error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var body CreateScheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	day, err := time.Parse(dateFormat, body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}
	start, err := interval.ParseTimeOfDay(body.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
		return
	}
	end, err := interval.ParseTimeOfDay(body.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
		return
	}

	s, err := h.service.CreateSchedule(c.Request.Context(), theatre.CreateScheduleRequest{
		TheatreID:   body.TheatreID,
		PatientID:   body.PatientID,
		ProcedureID: body.ProcedureID,
		SurgeonID:   body.SurgeonID,
		Date:        day,
		Start:       start,
		End:         end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewScheduleResponse(s))
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	s, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleResponse(s))
}

func (h *Handler) ListSchedules(c *gin.Context) {
	var req ListSchedulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := theatre.ScheduleFilter{
		TheatreID: req.TheatreID,
		PatientID: req.PatientID,
		SurgeonID: req.SurgeonID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.DateFrom != "" {
		if t, err := time.Parse(dateFormat, req.DateFrom); err == nil {
			filter.DateFrom = &t
		}
	}
	if req.DateTo != "" {
		if t, err := time.Parse(dateFormat, req.DateTo); err == nil {
			filter.DateTo = &t
		}
	}

	schedules, total, err := h.service.ListSchedules(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ScheduleResponse, len(schedules))
	for i, s := range schedules {
		items[i] = NewScheduleResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) StartSurgery(c *gin.Context) {
	h.scheduleTransition(c, func(ctx *gin.Context, id string) (*theatre.Schedule, error) {
		return h.service.StartSurgery(ctx.Request.Context(), id)
	})
}

func (h *Handler) CompleteSurgery(c *gin.Context) {
	var body CompleteSurgeryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.scheduleTransition(c, func(ctx *gin.Context, id string) (*theatre.Schedule, error) {
		return h.service.CompleteSurgery(ctx.Request.Context(), id, body.PostOpNotes)
	})
}

func (h *Handler) CancelSchedule(c *gin.Context) {
	h.scheduleTransition(c, func(ctx *gin.Context, id string) (*theatre.Schedule, error) {
		return h.service.CancelSchedule(ctx.Request.Context(), id)
	})
}

func (h *Handler) PostponeSchedule(c *gin.Context) {
	h.scheduleTransition(c, func(ctx *gin.Context, id string) (*theatre.Schedule, error) {
		return h.service.PostponeSchedule(ctx.Request.Context(), id)
	})
}

func (h *Handler) scheduleTransition(c *gin.Context, op func(*gin.Context, string) (*theatre.Schedule, error)) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	s, err := op(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleResponse(s))
}

func (h *Handler) AddTeamMember(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body AddTeamMemberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	m, err := h.service.AddTeamMember(c.Request.Context(), id, theatre.AddTeamMemberRequest{
		StaffID: body.StaffID,
		Role:    body.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewTeamMemberResponse(m))
}

func (h *Handler) ListTeam(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	team, err := h.service.ListTeam(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TeamMemberResponse, len(team))
	for i, m := range team {
		items[i] = NewTeamMemberResponse(m)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddConsumable(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body AddConsumableBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cons, err := h.service.AddConsumable(c.Request.Context(), id, theatre.AddConsumableRequest{
		Name:          body.Name,
		Quantity:      body.Quantity,
		UnitCostCents: body.UnitCostCents,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewConsumableResponse(cons))
}

func (h *Handler) ListConsumables(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	consumables, err := h.service.ListConsumables(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ConsumableResponse, len(consumables))
	for i, cons := range consumables {
		items[i] = NewConsumableResponse(cons)
	}

	c.JSON(http.StatusOK, items)
}
