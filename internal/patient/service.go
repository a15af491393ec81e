package patient

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	MRN         string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
}

type UpdateRequest struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter Filter) ([]*Patient, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Patient, error)
	Deactivate(ctx context.Context, id string) error

	// Exists reports whether the patient exists and is active. The
	// schedulers use this before allocating anything to the patient.
	Exists(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, ErrEmptyName
	}

	p := &Patient{
		MRN:         strings.TrimSpace(req.MRN),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Patient, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, ErrEmptyName
		}
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, ErrEmptyName
		}
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	return s.repo.Update(ctx, p)
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.ExistsActive(ctx, id)
}
