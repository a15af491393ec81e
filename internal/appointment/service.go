package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/staff"
)

// Policy holds the scheduling rules the service applies.
type Policy struct {
	BusinessHours   interval.Interval  // start inclusive, end exclusive
	SlotGranularity int                // candidate slot step in minutes
	Location        *time.Location     // canonical timezone for date math
}

type CreateRequest struct {
	PatientID string
	StaffID   string
	Date      time.Time
	Start     interval.TimeOfDay
	End       interval.TimeOfDay
	Type      string
}

type RescheduleRequest struct {
	Date  time.Time
	Start interval.TimeOfDay
	End   interval.TimeOfDay
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Appointment, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Appointment, error)
	Confirm(ctx context.Context, id string) (*Appointment, error)
	Cancel(ctx context.Context, id, reason string) (*Appointment, error)
	Complete(ctx context.Context, id, notes string) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)

	// AvailableSlots enumerates bookable windows of the requested duration
	// for the staff member's working day, stepping by the configured
	// granularity. Days the staff member does not work yield no slots.
	AvailableSlots(ctx context.Context, staffID string, date time.Time, durationMinutes int) ([]TimeSlot, error)
}

type service struct {
	repo           Repository
	patientService patient.Service
	staffService   staff.Service
	policy         Policy
}

func NewService(repo Repository, patientService patient.Service, staffService staff.Service, policy Policy) Service {
	return &service{
		repo:           repo,
		patientService: patientService,
		staffService:   staffService,
		policy:         policy,
	}
}

// normalizeDate truncates to midnight in the canonical schedule timezone.
func (s *service) normalizeDate(date time.Time) time.Time {
	y, m, d := date.In(s.policy.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.policy.Location)
}

// validateWindow runs the shared time checks: well-formed range, not in the
// past, start within business hours.
func (s *service) validateWindow(date time.Time, start, end interval.TimeOfDay) (time.Time, interval.Interval, error) {
	win, err := interval.New(start, end)
	if err != nil {
		return time.Time{}, interval.Interval{}, ErrInvalidTimeRange
	}

	day := s.normalizeDate(date)

	if start.At(day).Before(time.Now().In(s.policy.Location)) {
		return time.Time{}, interval.Interval{}, ErrStartTimePast
	}

	// Start inclusive, end exclusive: a start at exactly closing time is
	// rejected, a start at opening time is accepted.
	bh := s.policy.BusinessHours
	if start < bh.Start || start >= bh.End {
		return time.Time{}, interval.Interval{}, ErrOutsideBusinessHours
	}

	return day, win, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	day, win, err := s.validateWindow(req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	ok, err := s.patientService.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	ok, err = s.staffService.Exists(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaffNotFound
	}

	// Fast-path rejection; the storage exclusion constraint backstops the
	// race between this check and the insert.
	hasOverlap, err := s.repo.HasOverlap(ctx, req.StaffID, day, win, "")
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, ErrTimeConflict
	}

	a := &Appointment{
		PatientID: req.PatientID,
		StaffID:   req.StaffID,
		Date:      day,
		Start:     win.Start,
		End:       win.End,
		Type:      req.Type,
		Status:    StatusScheduled,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.Live() {
		return nil, ErrInvalidState
	}

	day, win, err := s.validateWindow(req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	// Exclude the appointment's own prior window from conflict detection.
	hasOverlap, err := s.repo.HasOverlap(ctx, a.StaffID, day, win, a.ID)
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, ErrTimeConflict
	}

	a.Date = day
	a.Start = win.Start
	a.End = win.End
	a.Status = StatusScheduled // rescheduling resets confirmation

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Confirm(ctx context.Context, id string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status != StatusScheduled {
		return nil, ErrInvalidState
	}
	a.Status = StatusConfirmed

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.Live() {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	a.Status = StatusCancelled
	a.CancelReason = reason
	a.CancelledAt = &now

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Complete(ctx context.Context, id, notes string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return nil, ErrInvalidState
	}
	a.Status = StatusCompleted
	a.Notes = notes

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) AvailableSlots(ctx context.Context, staffID string, date time.Time, durationMinutes int) ([]TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	ok, err := s.staffService.Exists(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaffNotFound
	}

	day := s.normalizeDate(date)

	sched, err := s.staffService.ScheduleFor(ctx, staffID, day.Weekday())
	if err != nil {
		if errors.Is(err, staff.ErrNotWorking) {
			return []TimeSlot{}, nil
		}
		return nil, err
	}

	existing, err := s.repo.ListLiveByStaffDate(ctx, staffID, day)
	if err != nil {
		return nil, err
	}

	work := sched.WorkingWindow()
	brk, hasBreak := sched.Break()
	duration := interval.TimeOfDay(durationMinutes)
	step := interval.TimeOfDay(s.policy.SlotGranularity)

	slots := []TimeSlot{}
	// Fixed-granularity steps across the working window; only slots whose
	// full duration fits before the window end are candidates.
	for start := work.Start; start+duration <= work.End; start += step {
		candidate := interval.Interval{Start: start, End: start + duration}

		if hasBreak && candidate.Overlaps(brk) {
			continue
		}

		conflict := false
		for _, a := range existing {
			if candidate.Overlaps(a.Window()) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		slots = append(slots, TimeSlot{Start: candidate.Start, End: candidate.End})
	}

	return slots, nil
}
