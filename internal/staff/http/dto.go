package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/request"
	"github.com/grandoak/hospital-backend/internal/staff"
)

type LoginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	Staff       StaffResponse `json:"staff"`
}

type CreateStaffBody struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=admin doctor nurse pharmacist"`
	Specialty string `json:"specialty"`
}

type UpdateStaffBody struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin doctor nurse pharmacist"`
	Specialty *string `json:"specialty"`
}

type ListStaffRequest struct {
	request.ListParams
	Role     string `form:"role" binding:"omitempty,oneof=admin doctor nurse pharmacist"`
	Keyword  string `form:"keyword"`
	IsActive *bool  `form:"is_active"`
}

type ScheduleEntryBody struct {
	Weekday    int     `json:"weekday" binding:"min=0,max=6"`
	WorkStart  string  `json:"work_start" binding:"required"`
	WorkEnd    string  `json:"work_end" binding:"required"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

type SetScheduleBody struct {
	Entries []ScheduleEntryBody `json:"entries" binding:"required,dive"`
}

type ScheduleEntryResponse struct {
	Weekday    int     `json:"weekday"`
	WorkStart  string  `json:"work_start"`
	WorkEnd    string  `json:"work_end"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

type StaffResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Specialty   string     `json:"specialty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewStaffResponse(s *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		Email:       s.Email,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Role:        string(s.Role),
		Specialty:   s.Specialty,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		LastLoginAt: s.LastLoginAt,
	}
}

func NewScheduleEntryResponse(d staff.DaySchedule) ScheduleEntryResponse {
	resp := ScheduleEntryResponse{
		Weekday:   int(d.Weekday),
		WorkStart: d.WorkStart.String(),
		WorkEnd:   d.WorkEnd.String(),
	}
	if brk, ok := d.Break(); ok {
		bs, be := brk.Start.String(), brk.End.String()
		resp.BreakStart = &bs
		resp.BreakEnd = &be
	}
	return resp
}
