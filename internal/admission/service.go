package admission

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/grandoak/hospital-backend/internal/staff"
	"github.com/grandoak/hospital-backend/internal/ward"
)

type AdmitRequest struct {
	PatientID  string
	BedID      string
	DoctorID   string
	Reason     string
	Type       AdmissionType // empty means elective
	AdmittedAt time.Time     // zero means now
}

type DischargeRequest struct {
	Outcome      Outcome   // empty means recovered
	Summary      string
	DischargedAt time.Time // zero means now
}

type Service interface {
	Admit(ctx context.Context, req AdmitRequest) (*Admission, error)
	Discharge(ctx context.Context, id string, req DischargeRequest) (*Admission, error)
	GetByID(ctx context.Context, id string) (*Admission, error)
	List(ctx context.Context, filter Filter) ([]*Admission, int, error)

	AddNursingNote(ctx context.Context, admissionID, staffID, note string) (*NursingNote, error)
	ListNursingNotes(ctx context.Context, admissionID string) ([]*NursingNote, error)
}

type service struct {
	repo           Repository
	registry       resource.Registry
	wardService    ward.Service
	patientService patient.Service
	staffService   staff.Service
}

func NewService(repo Repository, registry resource.Registry, wardService ward.Service, patientService patient.Service, staffService staff.Service) Service {
	return &service{
		repo:           repo,
		registry:       registry,
		wardService:    wardService,
		patientService: patientService,
		staffService:   staffService,
	}
}

func (s *service) Admit(ctx context.Context, req AdmitRequest) (*Admission, error) {
	if req.Type == "" {
		req.Type = TypeElective
	}
	if !slices.Contains(validTypes, req.Type) {
		return nil, ErrInvalidType
	}

	ok, err := s.patientService.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	if req.DoctorID != "" {
		ok, err = s.staffService.Exists(ctx, req.DoctorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrStaffNotFound
		}
	}

	bed, err := s.wardService.GetBed(ctx, req.BedID)
	if err != nil {
		return nil, err
	}
	if !bed.IsActive {
		return nil, ward.ErrBedNotFound
	}

	// Fast path check; the registry CAS inside the transaction is the
	// one that counts.
	status, err := s.registry.GetStatus(ctx, resource.KindBed, req.BedID)
	if err != nil {
		return nil, err
	}
	if status != resource.StatusAvailable {
		return nil, ErrBedUnavailable
	}

	admittedAt := req.AdmittedAt
	if admittedAt.IsZero() {
		admittedAt = time.Now().UTC()
	}

	a := &Admission{
		PatientID:  req.PatientID,
		BedID:      req.BedID,
		WardID:     bed.WardID,
		DoctorID:   req.DoctorID,
		Reason:     req.Reason,
		Type:       req.Type,
		AdmittedAt: admittedAt,
	}
	if err := s.repo.Admit(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Discharge(ctx context.Context, id string, req DischargeRequest) (*Admission, error) {
	if req.Outcome == "" {
		req.Outcome = OutcomeRecovered
	}
	if !slices.Contains(validOutcomes, req.Outcome) {
		return nil, ErrInvalidOutcome
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusAdmitted {
		return nil, ErrInvalidState
	}

	dischargedAt := req.DischargedAt
	if dischargedAt.IsZero() {
		dischargedAt = time.Now().UTC()
	}

	a.Outcome = req.Outcome
	a.DischargeSummary = req.Summary
	a.DischargedAt = &dischargedAt
	if err := s.repo.Discharge(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Admission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Admission, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) AddNursingNote(ctx context.Context, admissionID, staffID, note string) (*NursingNote, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ErrEmptyNote
	}

	a, err := s.repo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusAdmitted {
		return nil, ErrInvalidState
	}

	ok, err := s.staffService.Exists(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaffNotFound
	}

	n := &NursingNote{AdmissionID: admissionID, StaffID: staffID, Note: note}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) ListNursingNotes(ctx context.Context, admissionID string) ([]*NursingNote, error) {
	if _, err := s.repo.GetByID(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, admissionID)
}
