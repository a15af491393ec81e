package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
	"github.com/grandoak/hospital-backend/internal/ward"
)

type Handler struct {
	service ward.Service
}

func NewHandler(service ward.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateWard(c *gin.Context) {
	var body CreateWardBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	w, err := h.service.CreateWard(c.Request.Context(), ward.CreateWardRequest{
		Name:     body.Name,
		Capacity: body.Capacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewWardResponse(w))
}

func (h *Handler) GetWard(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	w, err := h.service.GetWard(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWardResponse(w))
}

func (h *Handler) ListWards(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	wards, total, err := h.service.ListWards(c.Request.Context(), params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]WardResponse, len(wards))
	for i, w := range wards {
		items[i] = NewWardResponse(w)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) UpdateWard(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateWardBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	w, err := h.service.UpdateWard(c.Request.Context(), id, ward.UpdateWardRequest{
		Name:     body.Name,
		Capacity: body.Capacity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWardResponse(w))
}

func (h *Handler) DeactivateWard(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.DeactivateWard(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateBed(c *gin.Context) {
	var body CreateBedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.AddBed(c.Request.Context(), ward.CreateBedRequest{
		WardID: body.WardID,
		Label:  body.Label,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBedResponse(b))
}

func (h *Handler) GetBed(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetBed(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBedResponse(b))
}

func (h *Handler) ListBeds(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	beds, err := h.service.ListBeds(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BedResponse, len(beds))
	for i, b := range beds {
		items[i] = NewBedResponse(b)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) DeactivateBed(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.DeactivateBed(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
