package staff

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "staff member not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactive           = apperror.New(http.StatusForbidden, "staff member is inactive")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
	ErrBadSchedule        = apperror.New(http.StatusBadRequest, "invalid schedule window")
	ErrNotWorking         = apperror.New(http.StatusUnprocessableEntity, "staff member does not work on this day")
)

// Role determines what a staff account may do through the API.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RolePharmacist Role = "pharmacist"
)

// ValidRoles lists the accepted role values.
var ValidRoles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist}

// Staff is a member of the hospital staff directory. Staff double as API
// accounts (email + password) and, for clinical roles, as schedulable
// calendar owners.
type Staff struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Specialty    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// DaySchedule is one weekday's working window for a staff member, with an
// optional break. A staff member with no row for a weekday does not work
// that day.
type DaySchedule struct {
	StaffID    string
	Weekday    time.Weekday
	WorkStart  interval.TimeOfDay
	WorkEnd    interval.TimeOfDay
	BreakStart *interval.TimeOfDay
	BreakEnd   *interval.TimeOfDay
}

// WorkingWindow returns the day's working window as an interval.
func (d *DaySchedule) WorkingWindow() interval.Interval {
	return interval.Interval{Start: d.WorkStart, End: d.WorkEnd}
}

// Break returns the break window, if any.
func (d *DaySchedule) Break() (interval.Interval, bool) {
	if d.BreakStart == nil || d.BreakEnd == nil {
		return interval.Interval{}, false
	}
	return interval.Interval{Start: *d.BreakStart, End: *d.BreakEnd}, true
}

// Filter defines parameters for listing staff.
type Filter struct {
	Role     string
	Keyword  string
	IsActive *bool
	Page     int
	PageSize int
}
