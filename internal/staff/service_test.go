package staff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grandoak/hospital-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID      map[string]*Staff
	byEmail   map[string]*Staff
	schedules map[string]map[time.Weekday]DaySchedule
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:      make(map[string]*Staff),
		byEmail:   make(map[string]*Staff),
		schedules: make(map[string]map[time.Weekday]DaySchedule),
	}
}

func (r *fakeRepo) Create(ctx context.Context, s *Staff) error {
	if _, ok := r.byEmail[s.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	r.nextID++
	s.ID = fmt.Sprintf("staff-%d", r.nextID)
	s.IsActive = true
	r.byID[s.ID] = s
	r.byEmail[s.Email] = s
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Staff, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	out := make([]*Staff, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(ctx context.Context, s *Staff) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *fakeRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (r *fakeRepo) ExistsActive(ctx context.Context, id string) (bool, error) {
	s, ok := r.byID[id]
	return ok && s.IsActive, nil
}

func (r *fakeRepo) ReplaceSchedule(ctx context.Context, staffID string, entries []DaySchedule) error {
	days := make(map[time.Weekday]DaySchedule, len(entries))
	for _, e := range entries {
		days[e.Weekday] = e
	}
	r.schedules[staffID] = days
	return nil
}

func (r *fakeRepo) GetDaySchedule(ctx context.Context, staffID string, weekday time.Weekday) (*DaySchedule, error) {
	d, ok := r.schedules[staffID][weekday]
	if !ok {
		return nil, ErrNotWorking
	}
	return &d, nil
}

func (r *fakeRepo) ListSchedule(ctx context.Context, staffID string) ([]DaySchedule, error) {
	out := make([]DaySchedule, 0, len(r.schedules[staffID]))
	for _, d := range r.schedules[staffID] {
		out = append(out, d)
	}
	return out, nil
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewService(repo, hasher, jwt), repo
}

func createDoctor(t *testing.T, s Service) *Staff {
	t.Helper()
	member, err := s.Create(context.Background(), CreateRequest{
		Email:     "doc@hospital.test",
		Password:  "correct-horse",
		FirstName: "Dana",
		LastName:  "Osei",
		Role:      RoleDoctor,
		Specialty: "cardiology",
	})
	require.NoError(t, err)
	return member
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateRequest{Email: "a@b.test", Password: "short", Role: RoleNurse})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = s.Create(ctx, CreateRequest{Email: "a@b.test", Password: "long-enough", Role: Role("janitor")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	createDoctor(t, s)
	_, err = s.Create(ctx, CreateRequest{
		Email:    "DOC@hospital.test", // same address, different case
		Password: "long-enough",
		Role:     RoleDoctor,
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	createDoctor(t, s)

	member, token, err := s.Login(ctx, "doc@hospital.test", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, member.LastLoginAt)

	_, _, err = s.Login(ctx, "doc@hospital.test", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@hospital.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactive(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	member := createDoctor(t, s)

	require.NoError(t, s.Deactivate(ctx, member.ID))

	_, _, err := s.Login(ctx, "doc@hospital.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInactive)

	ok, err := s.Exists(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func strPtr(s string) *string { return &s }

func TestSetWeeklySchedule(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	member := createDoctor(t, s)

	err := s.SetWeeklySchedule(ctx, member.ID, []ScheduleEntry{
		{Weekday: time.Monday, WorkStart: "09:00", WorkEnd: "17:00", BreakStart: strPtr("12:00"), BreakEnd: strPtr("13:00")},
		{Weekday: time.Tuesday, WorkStart: "08:30", WorkEnd: "16:30"},
	})
	require.NoError(t, err)

	day, err := s.ScheduleFor(ctx, member.ID, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "09:00", day.WorkStart.String())
	require.NotNil(t, day.BreakStart)
	assert.Equal(t, "12:00", day.BreakStart.String())

	_, err = s.ScheduleFor(ctx, member.ID, time.Sunday)
	assert.ErrorIs(t, err, ErrNotWorking)

	week, err := s.WeeklySchedule(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, week, 2)
}

func TestSetWeeklyScheduleValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	member := createDoctor(t, s)

	cases := []struct {
		name    string
		entries []ScheduleEntry
	}{
		{
			name: "duplicate weekday",
			entries: []ScheduleEntry{
				{Weekday: time.Monday, WorkStart: "09:00", WorkEnd: "12:00"},
				{Weekday: time.Monday, WorkStart: "13:00", WorkEnd: "17:00"},
			},
		},
		{
			name:    "inverted window",
			entries: []ScheduleEntry{{Weekday: time.Monday, WorkStart: "17:00", WorkEnd: "09:00"}},
		},
		{
			name: "break outside working window",
			entries: []ScheduleEntry{
				{Weekday: time.Monday, WorkStart: "09:00", WorkEnd: "17:00", BreakStart: strPtr("17:30"), BreakEnd: strPtr("18:00")},
			},
		},
		{
			name: "break missing end",
			entries: []ScheduleEntry{
				{Weekday: time.Monday, WorkStart: "09:00", WorkEnd: "17:00", BreakStart: strPtr("12:00")},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.SetWeeklySchedule(ctx, member.ID, tc.entries)
			assert.ErrorIs(t, err, ErrBadSchedule)
		})
	}

	err := s.SetWeeklySchedule(ctx, "staff-missing", []ScheduleEntry{
		{Weekday: time.Monday, WorkStart: "09:00", WorkEnd: "17:00"},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
