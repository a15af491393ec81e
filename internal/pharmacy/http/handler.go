package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandoak/hospital-backend/internal/auth"
	"github.com/grandoak/hospital-backend/internal/pharmacy"
	"github.com/grandoak/hospital-backend/internal/pkg/response"
)

type Handler struct {
	service pharmacy.Service
}

func NewHandler(service pharmacy.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateDrug(c *gin.Context) {
	var body CreateDrugBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d, err := h.service.CreateDrug(c.Request.Context(), pharmacy.CreateDrugRequest{
		Name:        body.Name,
		GenericName: body.GenericName,
		Form:        body.Form,
		Unit:        body.Unit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDrugResponse(d))
}

func (h *Handler) GetDrug(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	d, err := h.service.GetDrug(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDrugResponse(d))
}

func (h *Handler) ListDrugs(c *gin.Context) {
	var req ListDrugsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	drugs, total, err := h.service.ListDrugs(c.Request.Context(), req.Keyword, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DrugResponse, len(drugs))
	for i, d := range drugs {
		items[i] = NewDrugResponse(d)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) DeactivateDrug(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.DeactivateDrug(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AddBatch(c *gin.Context) {
	var body AddBatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	expiry, err := time.Parse(dateFormat, body.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry date format"})
		return
	}

	b, err := h.service.AddBatch(c.Request.Context(), pharmacy.AddBatchRequest{
		DrugID:      body.DrugID,
		BatchNumber: body.BatchNumber,
		Quantity:    body.Quantity,
		ExpiryDate:  expiry,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBatchResponse(b))
}

func (h *Handler) ListBatches(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	batches, err := h.service.ListBatches(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BatchResponse, len(batches))
	for i, b := range batches {
		items[i] = NewBatchResponse(b)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Allocate(c *gin.Context) {
	var body AllocateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d, err := h.service.Allocate(c.Request.Context(), pharmacy.AllocateRequest{
		DrugID:      body.DrugID,
		PatientID:   body.PatientID,
		Quantity:    body.Quantity,
		DispensedBy: auth.GetStaffID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDispenseResponse(d))
}

func (h *Handler) GetDispense(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	d, err := h.service.GetDispense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDispenseResponse(d))
}

func (h *Handler) ListDispenses(c *gin.Context) {
	var req ListDispensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	dispenses, total, err := h.service.ListDispenses(c.Request.Context(), req.DrugID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DispenseResponse, len(dispenses))
	for i, d := range dispenses {
		items[i] = NewDispenseResponse(d)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}
