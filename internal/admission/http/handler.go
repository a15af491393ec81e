package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/admission"
	"github.com/grandoak/hospital-backend/internal/auth"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
)

type Handler struct {
	service admission.Service
}

func NewHandler(service admission.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Admit(c *gin.Context) {
	var body AdmitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := admission.AdmitRequest{
		PatientID: body.PatientID,
		BedID:     body.BedID,
		DoctorID:  body.DoctorID,
		Reason:    body.Reason,
		Type:      admission.AdmissionType(body.Type),
	}
	if body.AdmittedAt != nil {
		req.AdmittedAt = *body.AdmittedAt
	}

	a, err := h.service.Admit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewAdmissionResponse(a))
}

func (h *Handler) Discharge(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body DischargeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := admission.DischargeRequest{
		Outcome: admission.Outcome(body.Outcome),
		Summary: body.Summary,
	}
	if body.DischargedAt != nil {
		req.DischargedAt = *body.DischargedAt
	}

	a, err := h.service.Discharge(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAdmissionResponse(a))
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

	c.JSON(http.StatusOK, NewAdmissionResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAdmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	admissions, total, err := h.service.List(c.Request.Context(), admission.Filter{
		PatientID: req.PatientID,
		WardID:    req.WardID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AdmissionResponse, len(admissions))
	for i, a := range admissions {
		items[i] = NewAdmissionResponse(a)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) AddNursingNote(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body NursingNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The note is attributed to the authenticated staff member.
	n, err := h.service.AddNursingNote(c.Request.Context(), id, auth.GetStaffID(c), body.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewNursingNoteResponse(n))
}

func (h *Handler) ListNursingNotes(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	notes, err := h.service.ListNursingNotes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]NursingNoteResponse, len(notes))
	for i, n := range notes {
		items[i] = NewNursingNoteResponse(n)
	}

	c.JSON(http.StatusOK, items)
}
