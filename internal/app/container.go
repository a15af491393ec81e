package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/grandoak/hospital-backend/internal/admission"
	"github.com/grandoak/hospital-backend/internal/api"
	"github.com/grandoak/hospital-backend/internal/appointment"
	"github.com/grandoak/hospital-backend/internal/auth"
	"github.com/grandoak/hospital-backend/internal/document"
	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pharmacy"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/pkg/storage"
	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/grandoak/hospital-backend/internal/staff"
	"github.com/grandoak/hospital-backend/internal/theatre"
	"github.com/grandoak/hospital-backend/internal/ward"
)

// Config holds the dependencies and settings required to start the
// application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       zerolog.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string

	BusinessHours    interval.Interval
	SlotGranularity  int
	ScheduleLocation *time.Location
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer wires every module and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Shared status registry for allocatable resources.
	registry := resource.NewPgxRegistry(cfg.DBPool)

	patientRepo := patient.NewPgxRepository(cfg.DBPool)
	patientService := patient.NewService(patientRepo)

	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo, passwordHasher, jwtManager)

	appointmentRepo := appointment.NewPgxRepository(cfg.DBPool)
	appointmentService := appointment.NewService(appointmentRepo, patientService, staffService, appointment.Policy{
		BusinessHours:   cfg.BusinessHours,
		SlotGranularity: cfg.SlotGranularity,
		Location:        cfg.ScheduleLocation,
	})

	theatreRepo := theatre.NewPgxRepository(cfg.DBPool, registry)
	theatreService := theatre.NewService(theatreRepo, registry, patientService, staffService, cfg.ScheduleLocation)

	wardRepo := ward.NewPgxRepository(cfg.DBPool)
	wardService := ward.NewService(wardRepo, registry)

	admissionRepo := admission.NewPgxRepository(cfg.DBPool, registry, wardRepo, cfg.Logger)
	admissionService := admission.NewService(admissionRepo, registry, wardService, patientService, staffService)

	pharmacyRepo := pharmacy.NewPgxRepository(cfg.DBPool)
	pharmacyService := pharmacy.NewService(pharmacyRepo, patientService)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init local storage failed: %w", err)
	}
	documentRepo := document.NewPgxRepository(cfg.DBPool)
	documentService := document.NewService(documentRepo, store, patientService)

	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		PatientService:     patientService,
		StaffService:       staffService,
		AppointmentService: appointmentService,
		TheatreService:     theatreService,
		WardService:        wardService,
		AdmissionService:   admissionService,
		PharmacyService:    pharmacyService,
		DocumentService:    documentService,
		JWTManager:         jwtManager,
	})

	return &Container{Router: router, JWTManager: jwtManager}, nil
}
