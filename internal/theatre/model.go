package theatre

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/resource"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "theatre not found")
	ErrScheduleNotFound = apperror.New(http.StatusNotFound, "surgery schedule not found")
	ErrPatientNotFound  = apperror.New(http.StatusNotFound, "patient not found or inactive")
	ErrSurgeonNotFound  = apperror.New(http.StatusNotFound, "surgeon not found or inactive")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "theatre already scheduled for this window")
	ErrUnavailable      = apperror.New(http.StatusConflict, "theatre is not available")
	ErrInvalidState     = apperror.New(http.StatusConflict, "schedule status does not allow this operation")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
)

// Theatre is an operating theatre. Its status column is owned by the
// resource registry; this package never writes it directly.
type Theatre struct {
	ID        string
	Name      string
	Floor     string
	Status    resource.Status
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ScheduleStatus string

const (
	StatusScheduled  ScheduleStatus = "scheduled"
	StatusInProgress ScheduleStatus = "in_progress"
	StatusCompleted  ScheduleStatus = "completed"
	StatusCancelled  ScheduleStatus = "cancelled"
	StatusPostponed  ScheduleStatus = "postponed"
)

// Live reports whether the schedule still claims its theatre window.
func (s ScheduleStatus) Live() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// Schedule books a theatre and surgical team for one procedure.
type Schedule struct {
	ID          string
	TheatreID   string
	PatientID   string
	ProcedureID string
	SurgeonID   string
	Date        time.Time // calendar day, midnight in the schedule timezone
	Start       interval.TimeOfDay
	End         interval.TimeOfDay
	Status      ScheduleStatus
	PostOpNotes string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Window returns the schedule's half-open time window.
func (s *Schedule) Window() interval.Interval {
	return interval.Interval{Start: s.Start, End: s.End}
}

// TeamMember attaches a staff member to a schedule for record-keeping.
// Team composition plays no part in conflict detection.
type TeamMember struct {
	ID         string
	ScheduleID string
	StaffID    string
	Role       string
	CreatedAt  time.Time
}

// Consumable records material used during a surgery. TotalCostCents is
// computed once at write time and never recomputed.
type Consumable struct {
	ID             string
	ScheduleID     string
	Name           string
	Quantity       int
	UnitCostCents  int64
	TotalCostCents int64
	CreatedAt      time.Time
}

// ScheduleFilter defines parameters for listing schedules.
type ScheduleFilter struct {
	TheatreID string
	PatientID string
	SurgeonID string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
