package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/appointment"
	"github.com/grandoak/hospital-backend/internal/pkg/request"
)

const dateFormat = "2006-01-02"

type CreateAppointmentBody struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
	Type      string `json:"type" binding:"required"`
}

type RescheduleBody struct {
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type CancelBody struct {
	Reason string `json:"reason" binding:"required"`
}

type CompleteBody struct {
	Notes string `json:"notes"`
}

type ListAppointmentsRequest struct {
	request.ListParams
	PatientID string `form:"patient_id" binding:"omitempty,uuid"`
	StaffID   string `form:"staff_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type SlotsRequest struct {
	StaffID  string `form:"staff_id" binding:"required,uuid"`
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration_minutes" binding:"required,min=1"`
}

type AppointmentResponse struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	StaffID      string     `json:"staff_id"`
	Date         string     `json:"date"`
	Start        string     `json:"start"`
	End          string     `json:"end"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		StaffID:      a.StaffID,
		Date:         a.Date.Format(dateFormat),
		Start:        a.Start.String(),
		End:          a.End.String(),
		Type:         a.Type,
		Status:       string(a.Status),
		Notes:        a.Notes,
		CancelReason: a.CancelReason,
		CancelledAt:  a.CancelledAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type TimeSlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewTimeSlotResponse(s appointment.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{Start: s.Start.String(), End: s.End.String()}
}
