package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
	"github.com/grandoak/hospital-backend/internal/staff"
)

type Handler struct {
	service staff.Service
}

func NewHandler(service staff.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	member, token, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Staff:       NewStaffResponse(member),
	})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateStaffBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	member, err := h.service.Create(c.Request.Context(), staff.CreateRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      staff.Role(body.Role),
		Specialty: body.Specialty,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewStaffResponse(member))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	member, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStaffResponse(member))
}

func (h *Handler) List(c *gin.Context) {
	var req ListStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	members, total, err := h.service.List(c.Request.Context(), staff.Filter{
		Role:     req.Role,
		Keyword:  req.Keyword,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]StaffResponse, len(members))
	for i, m := range members {
		items[i] = NewStaffResponse(m)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateStaffBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := staff.UpdateRequest{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Specialty: body.Specialty,
	}
	if body.Role != nil {
		role := staff.Role(*body.Role)
		req.Role = &role
	}

	member, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStaffResponse(member))
}

func (h *Handler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SetSchedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body SetScheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entries := make([]staff.ScheduleEntry, len(body.Entries))
	for i, e := range body.Entries {
		entries[i] = staff.ScheduleEntry{
			Weekday:    time.Weekday(e.Weekday),
			WorkStart:  e.WorkStart,
			WorkEnd:    e.WorkEnd,
			BreakStart: e.BreakStart,
			BreakEnd:   e.BreakEnd,
		}
	}

	if err := h.service.SetWeeklySchedule(c.Request.Context(), id, entries); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	entries, err := h.service.WeeklySchedule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewScheduleEntryResponse(e)
	}

	c.JSON(http.StatusOK, gin.H{"entries": items})
}
