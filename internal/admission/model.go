package admission

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "admission not found")
	ErrPatientNotFound     = apperror.New(http.StatusNotFound, "patient not found or inactive")
	ErrStaffNotFound       = apperror.New(http.StatusNotFound, "staff member not found or inactive")
	ErrBedUnavailable      = apperror.New(http.StatusConflict, "bed is not available")
	ErrAlreadyAdmitted     = apperror.New(http.StatusConflict, "patient already has a live admission")
	ErrInvalidState        = apperror.New(http.StatusConflict, "admission status does not allow this operation")
	ErrInternalConsistency = apperror.New(http.StatusInternalServerError, "ward occupancy does not match occupied beds")
	ErrEmptyNote           = apperror.New(http.StatusBadRequest, "note cannot be empty")
	ErrInvalidType         = apperror.New(http.StatusBadRequest, "invalid admission type")
	ErrInvalidOutcome      = apperror.New(http.StatusBadRequest, "invalid discharge status")
)

type Status string

const (
	StatusAdmitted   Status = "admitted"
	StatusDischarged Status = "discharged"
)

// AdmissionType records how the patient arrived.
type AdmissionType string

const (
	TypeElective  AdmissionType = "elective"
	TypeEmergency AdmissionType = "emergency"
	TypeTransfer  AdmissionType = "transfer"
)

var validTypes = []AdmissionType{TypeElective, TypeEmergency, TypeTransfer}

// Outcome is the clinical status recorded on discharge.
type Outcome string

const (
	OutcomeRecovered Outcome = "recovered"
	OutcomeReferred  Outcome = "referred"
	OutcomeDeceased  Outcome = "deceased"
)

var validOutcomes = []Outcome{OutcomeRecovered, OutcomeReferred, OutcomeDeceased}

// Admission ties a patient to a bed from admit to discharge. At most one
// live admission per patient, enforced by a partial unique index.
type Admission struct {
	ID               string
	PatientID        string
	BedID            string
	WardID           string
	DoctorID         string
	Reason           string
	Type             AdmissionType
	Status           Status
	AdmittedAt       time.Time
	DischargedAt     *time.Time
	Outcome          Outcome
	DischargeSummary string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NursingNote is a care record against an admission. Notes have no effect
// on allocation.
type NursingNote struct {
	ID          string
	AdmissionID string
	StaffID     string
	Note        string
	CreatedAt   time.Time
}

type Filter struct {
	PatientID string
	WardID    string
	Status    string
	Page      int
	PageSize  int
}
