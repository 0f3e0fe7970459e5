package http

import (
	"net/http"

	"healthcare-portal/internal/delivery/http/handler"
	"healthcare-portal/internal/delivery/http/middleware"
	"healthcare-portal/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	providerHandler    *handler.ProviderHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	healthHandler      *handler.HealthHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	rateLimiter        *middleware.RateLimiter
	collector          *metrics.Collector
	log                *logrus.Logger
}

type RouterDeps struct {
	AuthHandler        *handler.AuthHandler
	ProviderHandler    *handler.ProviderHandler
	PatientHandler     *handler.PatientHandler
	AppointmentHandler *handler.AppointmentHandler
	HealthHandler      *handler.HealthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CORSMiddleware     *middleware.CORSMiddleware
	RateLimiter        *middleware.RateLimiter
	Collector          *metrics.Collector
	Log                *logrus.Logger
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        deps.AuthHandler,
		providerHandler:    deps.ProviderHandler,
		patientHandler:     deps.PatientHandler,
		appointmentHandler: deps.AppointmentHandler,
		healthHandler:      deps.HealthHandler,
		authMiddleware:     deps.AuthMiddleware,
		corsMiddleware:     deps.CORSMiddleware,
		rateLimiter:        deps.RateLimiter,
		collector:          deps.Collector,
		log:                deps.Log,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even though no route matches OPTIONS.
func (r *Router) Setup() http.Handler {
	// Health checks and metrics stay outside the API middleware chain.
	r.router.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)
	r.router.HandleFunc("/ready", r.healthHandler.Ready).Methods(http.MethodGet)
	r.router.Handle("/metrics", r.collector.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestLogger(r.log), middleware.Metrics(r.collector), middleware.Tracing)
	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimiter.Handle)
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/provider", r.authHandler.RegisterProvider).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Provider directory and availability
	protected.HandleFunc("/providers", r.providerHandler.ListProviders).Methods(http.MethodGet)

	// Registered before /providers/{id} so "me" is not parsed as an id.
	mySchedule := protected.PathPrefix("/providers/me/schedule").Subrouter()
	mySchedule.Use(middleware.RequireProvider)
	mySchedule.HandleFunc("", r.providerHandler.GetMySchedule).Methods(http.MethodGet)
	mySchedule.HandleFunc("", r.providerHandler.UpdateMySchedule).Methods(http.MethodPut)

	protected.HandleFunc("/providers/{id}", r.providerHandler.GetProvider).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{id}/schedule", r.providerHandler.GetSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{id}/slots", r.providerHandler.GetSlots).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{id}/slots/week", r.providerHandler.GetWeekSlots).Methods(http.MethodGet)

	// Patient directory (providers only)
	patients := protected.PathPrefix("/patients").Subrouter()
	patients.Use(middleware.RequireProvider)
	patients.HandleFunc("", r.patientHandler.ListPatients).Methods(http.MethodGet)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/upcoming", r.appointmentHandler.Upcoming).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/summary", r.appointmentHandler.Summary).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.Reschedule).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}/history", r.appointmentHandler.History).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}
