package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
)

type CreatePatientBody struct {
	MRN         string    `json:"mrn" binding:"required"`
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required" time_format:"2006-01-02"`
	Phone       string    `json:"phone"`
}

type UpdatePatientBody struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

type ListPatientsRequest struct {
	request.ListParams
	Keyword  string `form:"keyword"`
	IsActive *bool  `form:"is_active"`
}

type PatientResponse struct {
	ID          string    `json:"id"`
	MRN         string    `json:"mrn"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Phone       string    `json:"phone"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		MRN:         p.MRN,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Phone:       p.Phone,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}
