package patient

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "patient not found")
	ErrMRNAlreadyUsed = apperror.New(http.StatusConflict, "medical record number already used")
	ErrEmptyName      = apperror.New(http.StatusBadRequest, "patient name cannot be empty")
)

// Patient is a record in the patient registry. Patients are never deleted;
// deactivation hides them from the schedulers' existence checks.
type Patient struct {
	ID          string
	MRN         string // medical record number, unique
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing patients.
type Filter struct {
	Keyword  string // matches MRN or name
	IsActive *bool
	Page     int
	PageSize int
}
