package ward

import (
	"context"
	"strings"

	"github.com/grandoak/hospital-backend/internal/resource"
)

type CreateWardRequest struct {
	Name     string
	Capacity int
}

type UpdateWardRequest struct {
	Name     *string
	Capacity *int
}

type CreateBedRequest struct {
	WardID string
	Label  string
}

type Service interface {
	CreateWard(ctx context.Context, req CreateWardRequest) (*Ward, error)
	GetWard(ctx context.Context, id string) (*Ward, error)
	ListWards(ctx context.Context, page, pageSize int) ([]*Ward, int, error)
	UpdateWard(ctx context.Context, id string, req UpdateWardRequest) (*Ward, error)
	DeactivateWard(ctx context.Context, id string) error

	AddBed(ctx context.Context, req CreateBedRequest) (*Bed, error)
	GetBed(ctx context.Context, id string) (*Bed, error)
	ListBeds(ctx context.Context, wardID string) ([]*Bed, error)
	DeactivateBed(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	registry resource.Registry
}

func NewService(repo Repository, registry resource.Registry) Service {
	return &service{repo: repo, registry: registry}
}

func (s *service) CreateWard(ctx context.Context, req CreateWardRequest) (*Ward, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	w := &Ward{Name: req.Name, Capacity: req.Capacity}
	if err := s.repo.CreateWard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetWard(ctx context.Context, id string) (*Ward, error) {
	return s.repo.GetWard(ctx, id)
}

func (s *service) ListWards(ctx context.Context, page, pageSize int) ([]*Ward, int, error) {
	return s.repo.ListWards(ctx, page, pageSize)
}

func (s *service) UpdateWard(ctx context.Context, id string, req UpdateWardRequest) (*Ward, error) {
	w, err := s.repo.GetWard(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		w.Name = *req.Name
	}
	if req.Capacity != nil {
		// Capacity can never drop below what is already in use.
		if *req.Capacity < w.CurrentOccupancy {
			return nil, ErrInvalidCapacity
		}
		w.Capacity = *req.Capacity
	}

	if err := s.repo.UpdateWard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) DeactivateWard(ctx context.Context, id string) error {
	w, err := s.repo.GetWard(ctx, id)
	if err != nil {
		return err
	}
	if w.CurrentOccupancy > 0 {
		return ErrBedOccupied
	}
	w.IsActive = false
	return s.repo.UpdateWard(ctx, w)
}

func (s *service) AddBed(ctx context.Context, req CreateBedRequest) (*Bed, error) {
	w, err := s.repo.GetWard(ctx, req.WardID)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, ErrNotFound
	}

	count, err := s.repo.ActiveBedCount(ctx, req.WardID)
	if err != nil {
		return nil, err
	}
	if count >= w.Capacity {
		return nil, ErrCapacityExceeded
	}

	b := &Bed{WardID: req.WardID, Label: req.Label}
	if err := s.repo.CreateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBed(ctx context.Context, id string) (*Bed, error) {
	return s.repo.GetBed(ctx, id)
}

func (s *service) ListBeds(ctx context.Context, wardID string) ([]*Bed, error) {
	if _, err := s.repo.GetWard(ctx, wardID); err != nil {
		return nil, err
	}
	return s.repo.ListBeds(ctx, wardID)
}

func (s *service) DeactivateBed(ctx context.Context, id string) error {
	b, err := s.repo.GetBed(ctx, id)
	if err != nil {
		return err
	}

	status, err := s.registry.GetStatus(ctx, resource.KindBed, b.ID)
	if err != nil {
		return err
	}
	if status == resource.StatusOccupied {
		return ErrBedOccupied
	}

	b.IsActive = false
	return s.repo.UpdateBed(ctx, b)
}
