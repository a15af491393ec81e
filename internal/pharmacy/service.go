package pharmacy

import (
	"context"
	"strings"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
)

type CreateDrugRequest struct {
	Name        string
	GenericName string
	Form        string
	Unit        string
}

type AddBatchRequest struct {
	DrugID      string
	BatchNumber string
	Quantity    int
	ExpiryDate  time.Time
}

type AllocateRequest struct {
	DrugID      string
	PatientID   string
	Quantity    int
	DispensedBy string
}

type Service interface {
	CreateDrug(ctx context.Context, req CreateDrugRequest) (*Drug, error)
	GetDrug(ctx context.Context, id string) (*Drug, error)
	ListDrugs(ctx context.Context, keyword string, page, pageSize int) ([]*Drug, int, error)
	DeactivateDrug(ctx context.Context, id string) error

	AddBatch(ctx context.Context, req AddBatchRequest) (*Batch, error)
	ListBatches(ctx context.Context, drugID string) ([]*Batch, error)

	Allocate(ctx context.Context, req AllocateRequest) (*Dispense, error)
	GetDispense(ctx context.Context, id string) (*Dispense, error)
	ListDispenses(ctx context.Context, drugID string, page, pageSize int) ([]*Dispense, int, error)
}

type service struct {
	repo           Repository
	patientService patient.Service
}

func NewService(repo Repository, patientService patient.Service) Service {
	return &service{repo: repo, patientService: patientService}
}

func (s *service) CreateDrug(ctx context.Context, req CreateDrugRequest) (*Drug, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	d := &Drug{
		Name:        req.Name,
		GenericName: req.GenericName,
		Form:        req.Form,
		Unit:        req.Unit,
	}
	if err := s.repo.CreateDrug(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) GetDrug(ctx context.Context, id string) (*Drug, error) {
	return s.repo.GetDrug(ctx, id)
}

func (s *service) ListDrugs(ctx context.Context, keyword string, page, pageSize int) ([]*Drug, int, error) {
	return s.repo.ListDrugs(ctx, keyword, page, pageSize)
}

func (s *service) DeactivateDrug(ctx context.Context, id string) error {
	d, err := s.repo.GetDrug(ctx, id)
	if err != nil {
		return err
	}
	d.IsActive = false
	return s.repo.UpdateDrug(ctx, d)
}

func (s *service) AddBatch(ctx context.Context, req AddBatchRequest) (*Batch, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	d, err := s.repo.GetDrug(ctx, req.DrugID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrNotFound
	}

	b := &Batch{
		DrugID:      req.DrugID,
		BatchNumber: req.BatchNumber,
		Quantity:    req.Quantity,
		ExpiryDate:  req.ExpiryDate,
	}
	if err := s.repo.CreateBatch(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListBatches(ctx context.Context, drugID string) ([]*Batch, error) {
	if _, err := s.repo.GetDrug(ctx, drugID); err != nil {
		return nil, err
	}
	return s.repo.ListBatches(ctx, drugID)
}

func (s *service) Allocate(ctx context.Context, req AllocateRequest) (*Dispense, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	d, err := s.repo.GetDrug(ctx, req.DrugID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrNotFound
	}

	if req.PatientID != "" {
		ok, err := s.patientService.Exists(ctx, req.PatientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPatientNotFound
		}
	}

	dispense := &Dispense{
		DrugID:      req.DrugID,
		PatientID:   req.PatientID,
		Quantity:    req.Quantity,
		DispensedBy: req.DispensedBy,
	}
	if err := s.repo.Allocate(ctx, dispense, time.Now().UTC()); err != nil {
		return nil, err
	}
	return dispense, nil
}

func (s *service) GetDispense(ctx context.Context, id string) (*Dispense, error) {
	return s.repo.GetDispense(ctx, id)
}

func (s *service) ListDispenses(ctx context.Context, drugID string, page, pageSize int) ([]*Dispense, int, error) {
	return s.repo.ListDispenses(ctx, drugID, page, pageSize)
}
