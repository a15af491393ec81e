package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grandoak/hospital-backend/internal/auth"
)

const minPasswordLength = 8

type CreateRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	Specialty string
}

type UpdateRequest struct {
	FirstName *string
	LastName  *string
	Role      *Role
	Specialty *string
}

type ScheduleEntry struct {
	Weekday    time.Weekday
	WorkStart  string // HH:MM
	WorkEnd    string
	BreakStart *string
	BreakEnd   *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Staff, error)
	Login(ctx context.Context, email, password string) (*Staff, string, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Staff, error)
	Deactivate(ctx context.Context, id string) error

	// Exists reports whether the staff member exists and is active.
	Exists(ctx context.Context, id string) (bool, error)

	// SetWeeklySchedule replaces the staff member's weekly working schedule.
	SetWeeklySchedule(ctx context.Context, staffID string, entries []ScheduleEntry) error
	WeeklySchedule(ctx context.Context, staffID string) ([]DaySchedule, error)

	// ScheduleFor returns the working window for the given weekday, or
	// ErrNotWorking when the staff member has no window that day.
	ScheduleFor(ctx context.Context, staffID string, weekday time.Weekday) (*DaySchedule, error)
}

type service struct {
	repo       Repository
	hasher     auth.PasswordHasher
	jwtManager *auth.JWTManager
}

func NewService(repo Repository, hasher auth.PasswordHasher, jwtManager *auth.JWTManager) Service {
	return &service{
		repo:       repo,
		hasher:     hasher,
		jwtManager: jwtManager,
	}
}

func validRole(role Role) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !validRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	member := &Staff{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Specialty:    req.Specialty,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Staff, string, error) {
	member, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !member.IsActive {
		return nil, "", ErrInactive
	}

	if err := s.hasher.Compare(member.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(member.ID, member.Email, string(member.Role))
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, member.ID, now); err != nil {
		return nil, "", err
	}
	member.LastLoginAt = &now

	return member, token, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		member.Role = *req.Role
	}
	if req.Specialty != nil {
		member.Specialty = *req.Specialty
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	member.IsActive = false
	return s.repo.Update(ctx, member)
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.ExistsActive(ctx, id)
}

func (s *service) SetWeeklySchedule(ctx context.Context, staffID string, entries []ScheduleEntry) error {
	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return err
	}

	schedules := make([]DaySchedule, 0, len(entries))
	seen := make(map[time.Weekday]bool)

	for _, e := range entries {
		if seen[e.Weekday] {
			return ErrBadSchedule
		}
		seen[e.Weekday] = true

		d, err := parseScheduleEntry(staffID, e)
		if err != nil {
			return err
		}
		schedules = append(schedules, *d)
	}

	return s.repo.ReplaceSchedule(ctx, staffID, schedules)
}

func (s *service) WeeklySchedule(ctx context.Context, staffID string) ([]DaySchedule, error) {
	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedule(ctx, staffID)
}

func (s *service) ScheduleFor(ctx context.Context, staffID string, weekday time.Weekday) (*DaySchedule, error) {
	return s.repo.GetDaySchedule(ctx, staffID, weekday)
}

func parseScheduleEntry(staffID string, e ScheduleEntry) (*DaySchedule, error) {
	work, err := parseWindow(e.WorkStart, e.WorkEnd)
	if err != nil {
		return nil, ErrBadSchedule
	}

	d := &DaySchedule{
		StaffID:   staffID,
		Weekday:   e.Weekday,
		WorkStart: work.Start,
		WorkEnd:   work.End,
	}

	// Break is all-or-nothing and must sit inside the working window.
	if (e.BreakStart == nil) != (e.BreakEnd == nil) {
		return nil, ErrBadSchedule
	}
	if e.BreakStart != nil {
		brk, err := parseWindow(*e.BreakStart, *e.BreakEnd)
		if err != nil {
			return nil, ErrBadSchedule
		}
		if !work.Contains(brk) {
			return nil, ErrBadSchedule
		}
		d.BreakStart = &brk.Start
		d.BreakEnd = &brk.End
	}

	return d, nil
}
