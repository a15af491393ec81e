package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/pharmacy"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
)

const dateFormat = "2006-01-02"

type CreateDrugBody struct {
	Name        string `json:"name" binding:"required"`
	GenericName string `json:"generic_name"`
	Form        string `json:"form"`
	Unit        string `json:"unit"`
}

type AddBatchBody struct {
	DrugID      string `json:"drug_id" binding:"required,uuid"`
	BatchNumber string `json:"batch_number" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	ExpiryDate  string `json:"expiry_date" binding:"required,datetime=2006-01-02"`
}

type AllocateBody struct {
	DrugID    string `json:"drug_id" binding:"required,uuid"`
	PatientID string `json:"patient_id" binding:"omitempty,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type ListDrugsRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

type ListDispensesRequest struct {
	request.ListParams
	DrugID string `form:"drug_id" binding:"omitempty,uuid"`
}

type DrugResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GenericName string    `json:"generic_name,omitempty"`
	Form        string    `json:"form,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewDrugResponse(d *pharmacy.Drug) DrugResponse {
	return DrugResponse{
		ID:          d.ID,
		Name:        d.Name,
		GenericName: d.GenericName,
		Form:        d.Form,
		Unit:        d.Unit,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type BatchResponse struct {
	ID          string    `json:"id"`
	DrugID      string    `json:"drug_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  string    `json:"expiry_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewBatchResponse(b *pharmacy.Batch) BatchResponse {
	return BatchResponse{
		ID:          b.ID,
		DrugID:      b.DrugID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		ExpiryDate:  b.ExpiryDate.Format(dateFormat),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type DispenseLineResponse struct {
	BatchID  string `json:"batch_id"`
	Quantity int    `json:"quantity"`
}

type DispenseResponse struct {
	ID          string                 `json:"id"`
	DrugID      string                 `json:"drug_id"`
	PatientID   string                 `json:"patient_id,omitempty"`
	Quantity    int                    `json:"quantity"`
	DispensedBy string                 `json:"dispensed_by,omitempty"`
	Lines       []DispenseLineResponse `json:"lines"`
	CreatedAt   time.Time              `json:"created_at"`
}

func NewDispenseResponse(d *pharmacy.Dispense) DispenseResponse {
	lines := make([]DispenseLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DispenseLineResponse{BatchID: l.BatchID, Quantity: l.Quantity}
	}
	return DispenseResponse{
		ID:          d.ID,
		DrugID:      d.DrugID,
		PatientID:   d.PatientID,
		Quantity:    d.Quantity,
		DispensedBy: d.DispensedBy,
		Lines:       lines,
		CreatedAt:   d.CreatedAt,
	}
}
