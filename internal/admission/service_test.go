package admission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/grandoak/hospital-backend/internal/staff"
	"github.com/grandoak/hospital-backend/internal/ward"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	statuses map[string]resource.Status
}

func (r *fakeRegistry) GetStatus(ctx context.Context, kind resource.Kind, id string) (resource.Status, error) {
	s, ok := r.statuses[id]
	if !ok {
		return "", resource.ErrNotFound
	}
	return s, nil
}

func (r *fakeRegistry) Transition(ctx context.Context, kind resource.Kind, id string, from, to resource.Status) error {
	if r.statuses[id] != from || !resource.CanTransition(kind, from, to) {
		return resource.ErrInvalidTransition
	}
	r.statuses[id] = to
	return nil
}

func (r *fakeRegistry) TransitionTx(ctx context.Context, q resource.Querier, kind resource.Kind, id string, from, to resource.Status) error {
	return r.Transition(ctx, kind, id, from, to)
}

// fakeRepo mirrors the transactional semantics of the SQL implementation:
// one live admission per patient, bed CAS, ward occupancy counter.
type fakeRepo struct {
	registry   *fakeRegistry
	admissions map[string]*Admission
	notes      map[string][]*NursingNote
	occupancy  map[string]int
	nextID     int

	// skewOccupancy makes the counter cross-check fail, standing in for a
	// counter that diverged from the occupied bed rows.
	skewOccupancy bool
}

func newFakeRepo(reg *fakeRegistry) *fakeRepo {
	return &fakeRepo{
		registry:   reg,
		admissions: make(map[string]*Admission),
		notes:      make(map[string][]*NursingNote),
		occupancy:  make(map[string]int),
	}
}

func (r *fakeRepo) verifyOccupancy() error {
	if r.skewOccupancy {
		return ErrInternalConsistency
	}
	return nil
}

func (r *fakeRepo) Admit(ctx context.Context, a *Admission) error {
	for _, existing := range r.admissions {
		if existing.PatientID == a.PatientID && existing.Status == StatusAdmitted {
			return ErrAlreadyAdmitted
		}
	}
	if err := r.registry.Transition(ctx, resource.KindBed, a.BedID, resource.StatusAvailable, resource.StatusOccupied); err != nil {
		return ErrBedUnavailable
	}
	r.occupancy[a.WardID]++

	if err := r.verifyOccupancy(); err != nil {
		r.occupancy[a.WardID]--
		r.registry.statuses[a.BedID] = resource.StatusAvailable
		return err
	}

	r.nextID++
	a.ID = fmt.Sprintf("adm-%d", r.nextID)
	a.Status = StatusAdmitted
	cp := *a
	r.admissions[a.ID] = &cp
	return nil
}

func (r *fakeRepo) Discharge(ctx context.Context, a *Admission) error {
	stored, ok := r.admissions[a.ID]
	if !ok || stored.Status != StatusAdmitted {
		return ErrInvalidState
	}
	if err := r.registry.Transition(ctx, resource.KindBed, a.BedID, resource.StatusOccupied, resource.StatusAvailable); err != nil {
		return ErrInternalConsistency
	}
	r.occupancy[a.WardID]--

	if err := r.verifyOccupancy(); err != nil {
		r.occupancy[a.WardID]++
		r.registry.statuses[a.BedID] = resource.StatusOccupied
		return err
	}

	a.Status = StatusDischarged
	cp := *a
	r.admissions[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Admission, error) {
	a, ok := r.admissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Admission, int, error) {
	var out []*Admission
	for _, a := range r.admissions {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) CreateNote(ctx context.Context, n *NursingNote) error {
	r.nextID++
	n.ID = fmt.Sprintf("note-%d", r.nextID)
	n.CreatedAt = time.Now()
	cp := *n
	r.notes[n.AdmissionID] = append(r.notes[n.AdmissionID], &cp)
	return nil
}

func (r *fakeRepo) ListNotes(ctx context.Context, admissionID string) ([]*NursingNote, error) {
	return r.notes[admissionID], nil
}

// stubWards serves bed lookups from a fixed map.
type stubWards struct {
	ward.Service
	beds map[string]*ward.Bed
}

func (s *stubWards) GetBed(ctx context.Context, id string) (*ward.Bed, error) {
	b, ok := s.beds[id]
	if !ok {
		return nil, ward.ErrBedNotFound
	}
	cp := *b
	return &cp, nil
}

type stubPatients struct {
	patient.Service
	active map[string]bool
}

func (s *stubPatients) Exists(ctx context.Context, id string) (bool, error) {
	return s.active[id], nil
}

type stubStaff struct {
	staff.Service
	active map[string]bool
}

func (s *stubStaff) Exists(ctx context.Context, id string) (bool, error) {
	return s.active[id], nil
}

type fixture struct {
	svc      Service
	repo     *fakeRepo
	registry *fakeRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	registry := &fakeRegistry{statuses: map[string]resource.Status{
		"bed-1": resource.StatusAvailable,
		"bed-2": resource.StatusAvailable,
	}}
	repo := newFakeRepo(registry)
	wards := &stubWards{beds: map[string]*ward.Bed{
		"bed-1": {ID: "bed-1", WardID: "ward-1", Label: "N-1", IsActive: true},
		"bed-2": {ID: "bed-2", WardID: "ward-1", Label: "N-2", IsActive: true},
	}}
	svc := NewService(
		repo,
		registry,
		wards,
		&stubPatients{active: map[string]bool{"patient-1": true, "patient-2": true}},
		&stubStaff{active: map[string]bool{"doctor-1": true, "nurse-1": true}},
	)
	return &fixture{svc: svc, repo: repo, registry: registry}
}

func TestAdmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, AdmitRequest{
		PatientID: "patient-1",
		BedID:     "bed-1",
		DoctorID:  "doctor-1",
		Reason:    "pneumonia",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAdmitted, a.Status)
	assert.Equal(t, "ward-1", a.WardID)
	assert.Equal(t, TypeElective, a.Type)
	assert.False(t, a.AdmittedAt.IsZero())

	assert.Equal(t, resource.StatusOccupied, f.registry.statuses["bed-1"])
	assert.Equal(t, 1, f.repo.occupancy["ward-1"])
}

func TestAdmitRejectsSecondLiveAdmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	require.NoError(t, err)

	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-2"})
	assert.ErrorIs(t, err, ErrAlreadyAdmitted)

	// The second bed was never touched.
	assert.Equal(t, resource.StatusAvailable, f.registry.statuses["bed-2"])
	assert.Equal(t, 1, f.repo.occupancy["ward-1"])
}

func TestAdmitRejectsOccupiedBed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	require.NoError(t, err)

	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-2", BedID: "bed-1"})
	assert.ErrorIs(t, err, ErrBedUnavailable)
}

func TestAdmitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "ghost", BedID: "bed-1"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "ghost"})
	assert.ErrorIs(t, err, ward.ErrBedNotFound)

	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1", DoctorID: "ghost"})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1", Type: AdmissionType("walk-in")})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestDischarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1", Type: TypeEmergency})
	require.NoError(t, err)
	assert.Equal(t, TypeEmergency, a.Type)

	d, err := f.svc.Discharge(ctx, a.ID, DischargeRequest{Summary: "made a full recovery"})
	require.NoError(t, err)
	assert.Equal(t, StatusDischarged, d.Status)
	assert.Equal(t, OutcomeRecovered, d.Outcome)
	assert.Equal(t, "made a full recovery", d.DischargeSummary)
	require.NotNil(t, d.DischargedAt)

	assert.Equal(t, resource.StatusAvailable, f.registry.statuses["bed-1"])
	assert.Equal(t, 0, f.repo.occupancy["ward-1"])

	// Second discharge is rejected.
	_, err = f.svc.Discharge(ctx, a.ID, DischargeRequest{})
	assert.ErrorIs(t, err, ErrInvalidState)

	// The patient can be admitted again.
	_, err = f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	assert.NoError(t, err)
}

func TestDischargeRejectsUnknownOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	require.NoError(t, err)

	_, err = f.svc.Discharge(ctx, a.ID, DischargeRequest{Outcome: Outcome("vanished")})
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	// The admission is untouched.
	got, err := f.svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdmitted, got.Status)
}

func TestOccupancyMismatchRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.repo.skewOccupancy = true
	_, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	assert.ErrorIs(t, err, ErrInternalConsistency)

	// Nothing from the failed admit sticks.
	assert.Equal(t, resource.StatusAvailable, f.registry.statuses["bed-1"])
	assert.Equal(t, 0, f.repo.occupancy["ward-1"])
	assert.Empty(t, f.repo.admissions)

	f.repo.skewOccupancy = false
	a, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	require.NoError(t, err)

	f.repo.skewOccupancy = true
	_, err = f.svc.Discharge(ctx, a.ID, DischargeRequest{})
	assert.ErrorIs(t, err, ErrInternalConsistency)

	// The failed discharge rolls back too.
	assert.Equal(t, resource.StatusOccupied, f.registry.statuses["bed-1"])
	assert.Equal(t, 1, f.repo.occupancy["ward-1"])
	got, err := f.svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdmitted, got.Status)
}

func TestNursingNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Admit(ctx, AdmitRequest{PatientID: "patient-1", BedID: "bed-1"})
	require.NoError(t, err)

	n, err := f.svc.AddNursingNote(ctx, a.ID, "nurse-1", "vitals stable")
	require.NoError(t, err)
	assert.Equal(t, "vitals stable", n.Note)

	_, err = f.svc.AddNursingNote(ctx, a.ID, "nurse-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyNote)

	_, err = f.svc.AddNursingNote(ctx, a.ID, "ghost", "note")
	assert.ErrorIs(t, err, ErrStaffNotFound)

	notes, err := f.svc.ListNursingNotes(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	// Closed admissions take no further notes.
	_, err = f.svc.Discharge(ctx, a.ID, DischargeRequest{})
	require.NoError(t, err)
	_, err = f.svc.AddNursingNote(ctx, a.ID, "nurse-1", "late entry")
	assert.ErrorIs(t, err, ErrInvalidState)
}
