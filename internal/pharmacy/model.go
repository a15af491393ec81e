package pharmacy

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "drug not found")
	ErrBatchNotFound         = apperror.New(http.StatusNotFound, "inventory batch not found")
	ErrPatientNotFound       = apperror.New(http.StatusNotFound, "patient not found or inactive")
	ErrEmptyName             = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidQuantity       = apperror.New(http.StatusBadRequest, "quantity must be positive")
	ErrInsufficientInventory = apperror.New(http.StatusUnprocessableEntity, "not enough eligible stock to cover the request")
)

type Drug struct {
	ID          string
	Name        string
	GenericName string
	Form        string
	Unit        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Batch is a physical inventory lot. Quantity never goes negative; the
// dispense allocator is the only writer after receipt.
type Batch struct {
	ID          string
	DrugID      string
	BatchNumber string
	Quantity    int
	ExpiryDate  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the batch is unusable as of the given instant.
func (b *Batch) Expired(asOf time.Time) bool {
	return !b.ExpiryDate.After(asOf)
}

// Dispense is the audit record of one allocation, with per-batch lines.
type Dispense struct {
	ID          string
	DrugID      string
	PatientID   string
	Quantity    int
	DispensedBy string
	Lines       []DispenseLine
	CreatedAt   time.Time
}

type DispenseLine struct {
	ID         string
	DispenseID string
	BatchID    string
	Quantity   int
}
