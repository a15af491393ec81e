package appointment

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "appointment not found")
	ErrPatientNotFound      = apperror.New(http.StatusNotFound, "patient not found or inactive")
	ErrStaffNotFound        = apperror.New(http.StatusNotFound, "staff member not found or inactive")
	ErrInvalidTimeRange     = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrStartTimePast        = apperror.New(http.StatusBadRequest, "cannot schedule an appointment in the past")
	ErrOutsideBusinessHours = apperror.New(http.StatusUnprocessableEntity, "start time is outside business hours")
	ErrTimeConflict         = apperror.New(http.StatusConflict, "time slot already booked for this staff member")
	ErrInvalidState         = apperror.New(http.StatusConflict, "appointment status does not allow this operation")
	ErrInvalidDuration      = apperror.New(http.StatusBadRequest, "duration must be positive")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Live reports whether the appointment still occupies its staff calendar
// slot. Completed and cancelled appointments free the window.
func (s Status) Live() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Appointment is a booking of a staff member's calendar slot for a patient.
// Appointments are never deleted; cancellation and completion are terminal
// status changes.
type Appointment struct {
	ID           string
	PatientID    string
	StaffID      string
	Date         time.Time // calendar day, midnight in the schedule timezone
	Start        interval.TimeOfDay
	End          interval.TimeOfDay
	Type         string
	Status       Status
	Notes        string
	CancelReason string
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Window returns the appointment's half-open time window.
func (a *Appointment) Window() interval.Interval {
	return interval.Interval{Start: a.Start, End: a.End}
}

// TimeSlot is a bookable candidate window returned by slot enumeration.
type TimeSlot struct {
	Start interval.TimeOfDay
	End   interval.TimeOfDay
}

// Filter defines parameters for listing appointments.
type Filter struct {
	PatientID string
	StaffID   string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
