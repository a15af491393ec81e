package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/admission"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
)

type AdmitBody struct {
	PatientID  string     `json:"patient_id" binding:"required,uuid"`
	BedID      string     `json:"bed_id" binding:"required,uuid"`
	DoctorID   string     `json:"doctor_id" binding:"omitempty,uuid"`
	Reason     string     `json:"reason" binding:"required"`
	Type       string     `json:"type" binding:"omitempty,oneof=elective emergency transfer"`
	AdmittedAt *time.Time `json:"admitted_at"`
}

type DischargeBody struct {
	Outcome      string     `json:"outcome" binding:"omitempty,oneof=recovered referred deceased"`
	Summary      string     `json:"summary"`
	DischargedAt *time.Time `json:"discharged_at"`
}

type NursingNoteBody struct {
	Note string `json:"note" binding:"required"`
}

type ListAdmissionsRequest struct {
	request.ListParams
	PatientID string `form:"patient_id" binding:"omitempty,uuid"`
	WardID    string `form:"ward_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=admitted discharged"`
}

type AdmissionResponse struct {
	ID               string     `json:"id"`
	PatientID        string     `json:"patient_id"`
	BedID            string     `json:"bed_id"`
	WardID           string     `json:"ward_id"`
	DoctorID         string     `json:"doctor_id,omitempty"`
	Reason           string     `json:"reason"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	AdmittedAt       time.Time  `json:"admitted_at"`
	DischargedAt     *time.Time `json:"discharged_at,omitempty"`
	Outcome          string     `json:"outcome,omitempty"`
	DischargeSummary string     `json:"discharge_summary,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewAdmissionResponse(a *admission.Admission) AdmissionResponse {
	return AdmissionResponse{
		ID:               a.ID,
		PatientID:        a.PatientID,
		BedID:            a.BedID,
		WardID:           a.WardID,
		DoctorID:         a.DoctorID,
		Reason:           a.Reason,
		Type:             string(a.Type),
		Status:           string(a.Status),
		AdmittedAt:       a.AdmittedAt,
		DischargedAt:     a.DischargedAt,
		Outcome:          string(a.Outcome),
		DischargeSummary: a.DischargeSummary,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

type NursingNoteResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNursingNoteResponse(n *admission.NursingNote) NursingNoteResponse {
	return NursingNoteResponse{ID: n.ID, StaffID: n.StaffID, Note: n.Note, CreatedAt: n.CreatedAt}
}
