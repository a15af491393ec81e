package ward

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
	"github.com/grandoak/hospital-backend/internal/resource"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "ward not found")
	ErrBedNotFound      = apperror.New(http.StatusNotFound, "bed not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "capacity must be positive")
	ErrCapacityExceeded = apperror.New(http.StatusConflict, "ward already has as many beds as its capacity")
	ErrBedOccupied      = apperror.New(http.StatusConflict, "bed is occupied")
)

// Ward groups beds. CurrentOccupancy is maintained by the admission
// allocator inside its transactions and must always equal the number of
// occupied beds in the ward.
type Ward struct {
	ID               string
	Name             string
	Capacity         int
	CurrentOccupancy int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Bed is an allocatable resource. Its status column is owned by the
// resource registry.
type Bed struct {
	ID        string
	WardID    string
	Label     string
	Status    resource.Status
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
