package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/request"
	"github.com/grandoak/hospital-backend/internal/theatre"
)

const dateFormat = "2006-01-02"

type CreateTheatreBody struct {
	Name  string `json:"name" binding:"required"`
	Floor string `json:"floor"`
}

type CreateScheduleBody struct {
	TheatreID   string `json:"theatre_id" binding:"required,uuid"`
	PatientID   string `json:"patient_id" binding:"required,uuid"`
	ProcedureID string `json:"procedure_id" binding:"required"`
	SurgeonID   string `json:"surgeon_id" binding:"required,uuid"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
}

type CompleteSurgeryBody struct {
	PostOpNotes string `json:"post_op_notes"`
}

type AddTeamMemberBody struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	Role    string `json:"role" binding:"required"`
}

type AddConsumableBody struct {
	Name          string `json:"name" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	UnitCostCents int64  `json:"unit_cost_cents" binding:"min=0"`
}

type ListSchedulesRequest struct {
	request.ListParams
	TheatreID string `form:"theatre_id" binding:"omitempty,uuid"`
	PatientID string `form:"patient_id" binding:"omitempty,uuid"`
	SurgeonID string `form:"surgeon_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled postponed"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type TheatreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Floor     string    `json:"floor,omitempty"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTheatreResponse(t *theatre.Theatre) TheatreResponse {
	return TheatreResponse{
		ID:        t.ID,
		Name:      t.Name,
		Floor:     t.Floor,
		Status:    string(t.Status),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ScheduleResponse struct {
	ID          string    `json:"id"`
	TheatreID   string    `json:"theatre_id"`
	PatientID   string    `json:"patient_id"`
	ProcedureID string    `json:"procedure_id"`
	SurgeonID   string    `json:"surgeon_id"`
	Date        string    `json:"date"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Status      string    `json:"status"`
	PostOpNotes string    `json:"post_op_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewScheduleResponse(s *theatre.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		TheatreID:   s.TheatreID,
		PatientID:   s.PatientID,
		ProcedureID: s.ProcedureID,
		SurgeonID:   s.SurgeonID,
		Date:        s.Date.Format(dateFormat),
		Start:       s.Start.String(),
		End:         s.End.String(),
		Status:      string(s.Status),
		PostOpNotes: s.PostOpNotes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type TeamMemberResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTeamMemberResponse(m *theatre.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{ID: m.ID, StaffID: m.StaffID, Role: m.Role, CreatedAt: m.CreatedAt}
}

type ConsumableResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitCostCents  int64     `json:"unit_cost_cents"`
	TotalCostCents int64     `json:"total_cost_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewConsumableResponse(c *theatre.Consumable) ConsumableResponse {
	return ConsumableResponse{
		ID:             c.ID,
		Name:           c.Name,
		Quantity:       c.Quantity,
		UnitCostCents:  c.UnitCostCents,
		TotalCostCents: c.TotalCostCents,
		CreatedAt:      c.CreatedAt,
	}
}
