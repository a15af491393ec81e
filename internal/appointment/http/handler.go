package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/appointment"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func parseWindow(date, start, end string) (time.Time, interval.TimeOfDay, interval.TimeOfDay, bool) {
	day, err := time.Parse(dateFormat, date)
	if err != nil {
		return time.Time{}, 0, 0, false
	}
	s, err := interval.ParseTimeOfDay(start)
	if err != nil {
		return time.Time{}, 0, 0, false
	}
	e, err := interval.ParseTimeOfDay(end)
	if err != nil {
		return time.Time{}, 0, 0, false
	}
	return day, s, e, true
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	day, start, end, ok := parseWindow(body.Date, body.Start, body.End)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or time format"})
		return
	}

	a, err := h.service.Create(c.Request.Context(), appointment.CreateRequest{
		PatientID: body.PatientID,
		StaffID:   body.StaffID,
		Date:      day,
		Start:     start,
		End:       end,
		Type:      body.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewAppointmentResponse(a))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := appointment.Filter{
		PatientID: req.PatientID,
		StaffID:   req.StaffID,
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

	appointments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		items[i] = NewAppointmentResponse(a)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RescheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	day, start, end, ok := parseWindow(body.Date, body.Start, body.End)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or time format"})
		return
	}

	a, err := h.service.Reschedule(c.Request.Context(), id, appointment.RescheduleRequest{
		Date:  day,
		Start: start,
		End:   end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id string) (*appointment.Appointment, error) {
		return h.service.Confirm(ctx.Request.Context(), id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	var body CancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.transition(c, func(ctx *gin.Context, id string) (*appointment.Appointment, error) {
		return h.service.Cancel(ctx.Request.Context(), id, body.Reason)
	})
}

func (h *Handler) Complete(c *gin.Context) {
	var body CompleteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.transition(c, func(ctx *gin.Context, id string) (*appointment.Appointment, error) {
		return h.service.Complete(ctx.Request.Context(), id, body.Notes)
	})
}

func (h *Handler) transition(c *gin.Context, op func(*gin.Context, string) (*appointment.Appointment, error)) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	a, err := op(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) Slots(c *gin.Context) {
	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	day, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), req.StaffID, day, req.Duration)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewTimeSlotResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{"slots": items})
}
