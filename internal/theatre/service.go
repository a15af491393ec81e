package theatre

import (
	"context"
	"strings"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/grandoak/hospital-backend/internal/staff"
)

type CreateTheatreRequest struct {
	Name  string
	Floor string
}

type CreateScheduleRequest struct {
	TheatreID   string
	PatientID   string
	ProcedureID string
	SurgeonID   string
	Date        time.Time
	Start       interval.TimeOfDay
	End         interval.TimeOfDay
}

type AddTeamMemberRequest struct {
	StaffID string
	Role    string
}

type AddConsumableRequest struct {
	Name          string
	Quantity      int
	UnitCostCents int64
}

type Service interface {
	CreateTheatre(ctx context.Context, req CreateTheatreRequest) (*Theatre, error)
	GetTheatre(ctx context.Context, id string) (*Theatre, error)
	ListTheatres(ctx context.Context, page, pageSize int) ([]*Theatre, int, error)
	DeactivateTheatre(ctx context.Context, id string) error

	// Operational status actions on the room itself.
	PlaceInMaintenance(ctx context.Context, id string) error
	EndMaintenance(ctx context.Context, id string) error
	ReleaseTheatre(ctx context.Context, id string) error // cleaning -> available

	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*Schedule, error)
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*Schedule, int, error)
	StartSurgery(ctx context.Context, id string) (*Schedule, error)
	CompleteSurgery(ctx context.Context, id, postOpNotes string) (*Schedule, error)
	CancelSchedule(ctx context.Context, id string) (*Schedule, error)
	PostponeSchedule(ctx context.Context, id string) (*Schedule, error)

	AddTeamMember(ctx context.Context, scheduleID string, req AddTeamMemberRequest) (*TeamMember, error)
	ListTeam(ctx context.Context, scheduleID string) ([]*TeamMember, error)
	AddConsumable(ctx context.Context, scheduleID string, req AddConsumableRequest) (*Consumable, error)
	ListConsumables(ctx context.Context, scheduleID string) ([]*Consumable, error)
}

type service struct {
	repo           Repository
	registry       resource.Registry
	patientService patient.Service
	staffService   staff.Service
	location       *time.Location
}

func NewService(repo Repository, registry resource.Registry, patientService patient.Service, staffService staff.Service, location *time.Location) Service {
	return &service{
		repo:           repo,
		registry:       registry,
		patientService: patientService,
		staffService:   staffService,
		location:       location,
	}
}

func (s *service) CreateTheatre(ctx context.Context, req CreateTheatreRequest) (*Theatre, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	t := &Theatre{Name: req.Name, Floor: req.Floor}
	if err := s.repo.CreateTheatre(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetTheatre(ctx context.Context, id string) (*Theatre, error) {
	return s.repo.GetTheatre(ctx, id)
}

func (s *service) ListTheatres(ctx context.Context, page, pageSize int) ([]*Theatre, int, error) {
	return s.repo.ListTheatres(ctx, page, pageSize)
}

func (s *service) DeactivateTheatre(ctx context.Context, id string) error {
	t, err := s.repo.GetTheatre(ctx, id)
	if err != nil {
		return err
	}
	t.IsActive = false
	return s.repo.UpdateTheatre(ctx, t)
}

func (s *service) PlaceInMaintenance(ctx context.Context, id string) error {
	return s.registry.Transition(ctx, resource.KindTheatre, id, resource.StatusAvailable, resource.StatusMaintenance)
}

func (s *service) EndMaintenance(ctx context.Context, id string) error {
	return s.registry.Transition(ctx, resource.KindTheatre, id, resource.StatusMaintenance, resource.StatusAvailable)
}

func (s *service) ReleaseTheatre(ctx context.Context, id string) error {
	return s.registry.Transition(ctx, resource.KindTheatre, id, resource.StatusCleaning, resource.StatusAvailable)
}

// normalizeDate truncates to midnight in the canonical schedule timezone.
func (s *service) normalizeDate(date time.Time) time.Time {
	y, m, d := date.In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

func (s *service) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*Schedule, error) {
	win, err := interval.New(req.Start, req.End)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	day := s.normalizeDate(req.Date)

	ok, err := s.patientService.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	ok, err = s.staffService.Exists(ctx, req.SurgeonID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSurgeonNotFound
	}

	status, err := s.registry.GetStatus(ctx, resource.KindTheatre, req.TheatreID)
	if err != nil {
		return nil, err
	}
	if status != resource.StatusAvailable {
		return nil, ErrUnavailable
	}

	hasOverlap, err := s.repo.HasOverlap(ctx, req.TheatreID, day, win, "")
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, ErrTimeConflict
	}

	sched := &Schedule{
		TheatreID:   req.TheatreID,
		PatientID:   req.PatientID,
		ProcedureID: req.ProcedureID,
		SurgeonID:   req.SurgeonID,
		Date:        day,
		Start:       win.Start,
		End:         win.End,
		Status:      StatusScheduled,
	}

	// A same-day booking claims the room immediately so nothing else can
	// take it before the procedure starts.
	sameDay := interval.SameDay(day, time.Now(), s.location)

	if err := s.repo.CreateSchedule(ctx, sched, sameDay); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *service) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	return s.repo.GetSchedule(ctx, id)
}

func (s *service) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*Schedule, int, error) {
	return s.repo.ListSchedules(ctx, filter)
}

// occupyTheatre forces the theatre to occupied regardless of whether the
// same-day reservation already claimed it.
func (s *service) occupyTheatre(ctx context.Context, theatreID string) error {
	status, err := s.registry.GetStatus(ctx, resource.KindTheatre, theatreID)
	if err != nil {
		return err
	}
	switch status {
	case resource.StatusOccupied:
		return nil
	case resource.StatusAvailable:
		return s.registry.Transition(ctx, resource.KindTheatre, theatreID, resource.StatusAvailable, resource.StatusOccupied)
	default:
		return ErrUnavailable
	}
}

func (s *service) StartSurgery(ctx context.Context, id string) (*Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if sched.Status != StatusScheduled {
		return nil, ErrInvalidState
	}

	if err := s.occupyTheatre(ctx, sched.TheatreID); err != nil {
		return nil, err
	}

	sched.Status = StatusInProgress
	if err := s.repo.UpdateSchedule(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *service) CompleteSurgery(ctx context.Context, id, postOpNotes string) (*Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	// Completing directly from scheduled is allowed for corrected records.
	if sched.Status != StatusInProgress && sched.Status != StatusScheduled {
		return nil, ErrInvalidState
	}

	sched.Status = StatusCompleted
	sched.PostOpNotes = postOpNotes
	if err := s.repo.UpdateSchedule(ctx, sched); err != nil {
		return nil, err
	}

	// The room goes to cleaning and stays there until housekeeping calls
	// ReleaseTheatre.
	status, err := s.registry.GetStatus(ctx, resource.KindTheatre, sched.TheatreID)
	if err != nil {
		return nil, err
	}
	if status == resource.StatusOccupied || status == resource.StatusAvailable {
		if err := s.registry.Transition(ctx, resource.KindTheatre, sched.TheatreID, status, resource.StatusCleaning); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func (s *service) CancelSchedule(ctx context.Context, id string) (*Schedule, error) {
	return s.abort(ctx, id, StatusCancelled)
}

func (s *service) PostponeSchedule(ctx context.Context, id string) (*Schedule, error) {
	return s.abort(ctx, id, StatusPostponed)
}

func (s *service) abort(ctx context.Context, id string, to ScheduleStatus) (*Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sched.Status.Live() {
		return nil, ErrInvalidState
	}

	wasInProgress := sched.Status == StatusInProgress
	sched.Status = to
	if err := s.repo.UpdateSchedule(ctx, sched); err != nil {
		return nil, err
	}

	if err := s.releaseAborted(ctx, sched, wasInProgress); err != nil {
		return nil, err
	}
	return sched, nil
}

// releaseAborted frees the room held by an aborted schedule. An interrupted
// surgery dirties the room and exits through cleaning; a same-day
// reservation that never started is handed straight back, unless another
// surgery in the same theatre is still underway.
func (s *service) releaseAborted(ctx context.Context, sched *Schedule, wasInProgress bool) error {
	status, err := s.registry.GetStatus(ctx, resource.KindTheatre, sched.TheatreID)
	if err != nil {
		return err
	}
	if status != resource.StatusOccupied {
		return nil
	}

	if wasInProgress {
		return s.registry.Transition(ctx, resource.KindTheatre, sched.TheatreID,
			resource.StatusOccupied, resource.StatusCleaning)
	}

	if !interval.SameDay(sched.Date, time.Now(), s.location) {
		return nil
	}
	busy, err := s.repo.HasInProgress(ctx, sched.TheatreID)
	if err != nil {
		return err
	}
	if busy {
		return nil
	}
	return s.registry.Transition(ctx, resource.KindTheatre, sched.TheatreID,
		resource.StatusOccupied, resource.StatusAvailable)
}

func (s *service) AddTeamMember(ctx context.Context, scheduleID string, req AddTeamMemberRequest) (*TeamMember, error) {
	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	ok, err := s.staffService.Exists(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSurgeonNotFound
	}

	m := &TeamMember{ScheduleID: scheduleID, StaffID: req.StaffID, Role: req.Role}
	if err := s.repo.AddTeamMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListTeam(ctx context.Context, scheduleID string) ([]*TeamMember, error) {
	return s.repo.ListTeam(ctx, scheduleID)
}

func (s *service) AddConsumable(ctx context.Context, scheduleID string, req AddConsumableRequest) (*Consumable, error) {
	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	cons := &Consumable{
		ScheduleID:    scheduleID,
		Name:          req.Name,
		Quantity:      req.Quantity,
		UnitCostCents: req.UnitCostCents,
		// Cost is fixed at write time and never recomputed.
		TotalCostCents: req.UnitCostCents * int64(req.Quantity),
	}
	if err := s.repo.AddConsumable(ctx, cons); err != nil {
		return nil, err
	}
	return cons, nil
}

func (s *service) ListConsumables(ctx context.Context, scheduleID string) ([]*Consumable, error) {
	return s.repo.ListConsumables(ctx, scheduleID)
}
