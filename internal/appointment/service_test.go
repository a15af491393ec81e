package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository with the same overlap semantics as
// the SQL implementation.
type fakeRepo struct {
	appointments map[string]*Appointment
	nextID       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[string]*Appointment)}
}

func (r *fakeRepo) Create(ctx context.Context, a *Appointment) error {
	r.nextID++
	a.ID = fmt.Sprintf("appt-%d", r.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range r.appointments {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(ctx context.Context, a *Appointment) error {
	if _, ok := r.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeRepo) HasOverlap(ctx context.Context, staffID string, date time.Time, win interval.Interval, excludeID string) (bool, error) {
	for _, a := range r.appointments {
		if a.ID == excludeID || a.StaffID != staffID || !a.Date.Equal(date) || !a.Status.Live() {
			continue
		}
		if a.Window().Overlaps(win) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListLiveByStaffDate(ctx context.Context, staffID string, date time.Time) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range r.appointments {
		if a.StaffID == staffID && a.Date.Equal(date) && a.Status.Live() {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// stubPatients answers existence checks only.
type stubPatients struct {
	patient.Service
	active map[string]bool
}

func (s *stubPatients) Exists(ctx context.Context, id string) (bool, error) {
	return s.active[id], nil
}

// stubStaff answers existence checks and serves one weekly schedule for
// every weekday.
type stubStaff struct {
	staff.Service
	active   map[string]bool
	schedule *staff.DaySchedule
}

func (s *stubStaff) Exists(ctx context.Context, id string) (bool, error) {
	return s.active[id], nil
}

func (s *stubStaff) ScheduleFor(ctx context.Context, staffID string, weekday time.Weekday) (*staff.DaySchedule, error) {
	if s.schedule == nil {
		return nil, staff.ErrNotWorking
	}
	return s.schedule, nil
}

func tod(t *testing.T, s string) interval.TimeOfDay {
	t.Helper()
	v, err := interval.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func testPolicy(t *testing.T) Policy {
	return Policy{
		BusinessHours:   interval.Interval{Start: tod(t, "08:00"), End: tod(t, "17:00")},
		SlotGranularity: 30,
		Location:        time.UTC,
	}
}

func futureDate() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	repo := newFakeRepo()
	patients := &stubPatients{active: map[string]bool{"patient-1": true}}
	staffDir := &stubStaff{active: map[string]bool{"doc-1": true}}
	return NewService(repo, patients, staffDir, testPolicy(t)), repo
}

func createReq(t *testing.T, start, end string) CreateRequest {
	return CreateRequest{
		PatientID: "patient-1",
		StaffID:   "doc-1",
		Date:      futureDate(),
		Start:     tod(t, start),
		End:       tod(t, end),
		Type:      "consultation",
	}
}

func TestCreateAppointment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.NotEmpty(t, a.ID)
}

func TestCreateRejectsDegenerateWindow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createReq(t, "10:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateRejectsPastStart(t *testing.T) {
	svc, _ := newTestService(t)

	req := createReq(t, "10:00", "10:30")
	req.Date = time.Now().UTC().AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrStartTimePast)
}

func TestCreateBusinessHoursBoundaries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 07:59 start is before the window opens.
	_, err := svc.Create(ctx, createReq(t, "07:59", "08:29"))
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)

	// 08:00 start is exactly the inclusive window start.
	_, err = svc.Create(ctx, createReq(t, "08:00", "08:30"))
	assert.NoError(t, err)

	// 16:59 start with a one minute duration fits.
	_, err = svc.Create(ctx, createReq(t, "16:59", "17:00"))
	assert.NoError(t, err)

	// 17:00 start is the exclusive window end.
	_, err = svc.Create(ctx, createReq(t, "17:00", "17:30"))
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestCreateRejectsUnknownPatientOrStaff(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := createReq(t, "10:00", "10:30")
	req.PatientID = "ghost"
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	req = createReq(t, "10:00", "10:30")
	req.StaffID = "ghost"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreateDetectsConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)

	// Overlapping window on the same staff/date conflicts.
	_, err = svc.Create(ctx, createReq(t, "10:15", "10:45"))
	assert.ErrorIs(t, err, ErrTimeConflict)

	// Back-to-back is allowed: half-open windows share no instant.
	_, err = svc.Create(ctx, createReq(t, "10:30", "11:00"))
	assert.NoError(t, err)
}

func TestCancelledAppointmentFreesTheWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, a.ID, "patient request")
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq(t, "10:00", "10:30"))
	assert.NoError(t, err)
}

func TestReschedule(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, createReq(t, "11:00", "11:30"))
	require.NoError(t, err)

	// Moving onto another live appointment conflicts.
	_, err = svc.Reschedule(ctx, a.ID, RescheduleRequest{
		Date: futureDate(), Start: tod(t, "11:15"), End: tod(t, "11:45"),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)

	// The appointment's own prior window is excluded from conflict checks.
	confirmed, err := svc.Confirm(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)

	moved, err := svc.Reschedule(ctx, other.ID, RescheduleRequest{
		Date: futureDate(), Start: tod(t, "11:00"), End: tod(t, "12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, tod(t, "12:00"), moved.End)
	// Rescheduling resets confirmation.
	assert.Equal(t, StatusScheduled, moved.Status)
}

func TestRescheduleTerminalStateRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, a.ID, "no longer needed")
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, a.ID, RescheduleRequest{
		Date: futureDate(), Start: tod(t, "12:00"), End: tod(t, "12:30"),
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateMachine(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)

	// scheduled -> confirmed -> completed
	_, err = svc.Confirm(ctx, a.ID)
	require.NoError(t, err)

	// confirm is only valid from scheduled
	_, err = svc.Confirm(ctx, a.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	done, err := svc.Complete(ctx, a.ID, "all good")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)

	_, err = svc.Complete(ctx, a.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidState)

	// cancel after completion is rejected
	_, err = svc.Cancel(ctx, a.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestCancelIsTerminalAndIdempotencyRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(t, "10:00", "10:30"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, a.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "patient request", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
	firstCancelledAt := *cancelled.CancelledAt

	// Second cancel fails and leaves the stored record untouched.
	_, err = svc.Cancel(ctx, a.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, "patient request", stored.CancelReason)
	require.NotNil(t, stored.CancelledAt)
	assert.Equal(t, firstCancelledAt, *stored.CancelledAt)
}

func TestAvailableSlots(t *testing.T) {
	repo := newFakeRepo()
	patients := &stubPatients{active: map[string]bool{"patient-1": true}}

	breakStart := tod(t, "10:30")
	breakEnd := tod(t, "11:00")
	staffDir := &stubStaff{
		active: map[string]bool{"doc-1": true},
		schedule: &staff.DaySchedule{
			StaffID:    "doc-1",
			WorkStart:  tod(t, "09:00"),
			WorkEnd:    tod(t, "12:00"),
			BreakStart: &breakStart,
			BreakEnd:   &breakEnd,
		},
	}

	svc := NewService(repo, patients, staffDir, testPolicy(t))
	ctx := context.Background()

	// Existing live appointment 09:00-09:30.
	_, err := svc.Create(ctx, createReq(t, "09:00", "09:30"))
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, "doc-1", futureDate(), 30)
	require.NoError(t, err)

	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.Start.String()
	}
	assert.Equal(t, []string{"09:30", "10:00", "11:00", "11:30"}, starts)

	// Longer durations still step by the fixed 30 minute granularity and
	// must fit entirely before the window end.
	slots, err = svc.AvailableSlots(ctx, "doc-1", futureDate(), 60)
	require.NoError(t, err)

	starts = starts[:0]
	for _, s := range slots {
		starts = append(starts, s.Start.String())
	}
	assert.Equal(t, []string{"09:30", "11:00"}, starts)
}

func TestAvailableSlotsNonWorkingDay(t *testing.T) {
	repo := newFakeRepo()
	patients := &stubPatients{active: map[string]bool{"patient-1": true}}
	staffDir := &stubStaff{active: map[string]bool{"doc-1": true}} // no schedule

	svc := NewService(repo, patients, staffDir, testPolicy(t))

	slots, err := svc.AvailableSlots(context.Background(), "doc-1", futureDate(), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AvailableSlots(ctx, "doc-1", futureDate(), 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = svc.AvailableSlots(ctx, "ghost", futureDate(), 30)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
