package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/grandoak/hospital-backend/internal/admission"
	admissionHttp "github.com/grandoak/hospital-backend/internal/admission/http"
	"github.com/grandoak/hospital-backend/internal/appointment"
	appointmentHttp "github.com/grandoak/hospital-backend/internal/appointment/http"
	"github.com/grandoak/hospital-backend/internal/auth"
	"github.com/grandoak/hospital-backend/internal/document"
	documentHttp "github.com/grandoak/hospital-backend/internal/document/http"
	"github.com/grandoak/hospital-backend/internal/patient"
	patientHttp "github.com/grandoak/hospital-backend/internal/patient/http"
	"github.com/grandoak/hospital-backend/internal/pharmacy"
	pharmacyHttp "github.com/grandoak/hospital-backend/internal/pharmacy/http"
	"github.com/grandoak/hospital-backend/internal/staff"
	staffHttp "github.com/grandoak/hospital-backend/internal/staff/http"
	"github.com/grandoak/hospital-backend/internal/theatre"
	theatreHttp "github.com/grandoak/hospital-backend/internal/theatre/http"
	"github.com/grandoak/hospital-backend/internal/ward"
	wardHttp "github.com/grandoak/hospital-backend/internal/ward/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	PatientService     patient.Service
	StaffService       staff.Service
	AppointmentService appointment.Service
	TheatreService     theatre.Service
	WardService        ward.Service
	AdmissionService   admission.Service
	PharmacyService    pharmacy.Service
	DocumentService    document.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware and registers every module's routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminOnly := auth.RequireRole(string(staff.RoleAdmin))
	pharmacistOnly := auth.RequireRole(string(staff.RoleAdmin), string(staff.RolePharmacist))

	patientHandler := patientHttp.NewHandler(cfg.PatientService)
	staffHandler := staffHttp.NewHandler(cfg.StaffService)
	appointmentHandler := appointmentHttp.NewHandler(cfg.AppointmentService)
	theatreHandler := theatreHttp.NewHandler(cfg.TheatreService)
	wardHandler := wardHttp.NewHandler(cfg.WardService)
	admissionHandler := admissionHttp.NewHandler(cfg.AdmissionService)
	pharmacyHandler := pharmacyHttp.NewHandler(cfg.PharmacyService)
	documentHandler := documentHttp.NewHandler(cfg.DocumentService)

	v1 := r.Group("/v1")
	{
		patientHttp.RegisterRoutes(v1, patientHandler, authMiddleware)
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware, adminOnly)
		appointmentHttp.RegisterRoutes(v1, appointmentHandler, authMiddleware)
		theatreHttp.RegisterRoutes(v1, theatreHandler, authMiddleware, adminOnly)
		wardHttp.RegisterRoutes(v1, wardHandler, authMiddleware, adminOnly)
		admissionHttp.RegisterRoutes(v1, admissionHandler, authMiddleware)
		pharmacyHttp.RegisterRoutes(v1, pharmacyHandler, authMiddleware, pharmacistOnly)
		documentHttp.RegisterRoutes(v1, documentHandler, authMiddleware)
	}

	return r
}
