package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmarquez/autoglass-backend/api/controllers"
	"github.com/dmarquez/autoglass-backend/api/middleware"
	"github.com/dmarquez/autoglass-backend/api/responses"
	"github.com/dmarquez/autoglass-backend/internal/appointments"
	"github.com/dmarquez/autoglass-backend/internal/auth"
	"github.com/dmarquez/autoglass-backend/internal/customers"
	"github.com/dmarquez/autoglass-backend/internal/dashboard"
	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/pkg/auth/session"
	"github.com/dmarquez/autoglass-backend/pkg/config"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/metrics"
	"github.com/dmarquez/autoglass-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Location     *time.Location
	DB           controllers.Pinger
	Redis        *redis.Client
	Sessions     session.AccessSessionChecker
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	Auth         *auth.Service
	Appointments *appointments.Service
	Customers    *customers.Service
	Insurance    *insurance.Service
	Dashboard    *dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	responses.Debug = !cfg.App.IsProd()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).
			Post("/login", controllers.AuthLogin(d.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, d.Sessions, logg),
				middleware.RequireRole(enums.StaffRoleAdmin.String(), logg),
			)
			r.Post("/register", controllers.AuthRegister(d.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", controllers.AppointmentCreate(d.Appointments, logg))
			r.Get("/", controllers.AppointmentList(d.Appointments, d.Location, logg))
			r.Get("/slots", controllers.AppointmentSlots(d.Appointments))
			r.Get("/{id}", controllers.AppointmentDetail(d.Appointments, logg))
			r.Patch("/{id}", controllers.AppointmentUpdate(d.Appointments, logg))
			r.Delete("/{id}", controllers.AppointmentDelete(d.Appointments, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(d.Customers, logg))
			r.Get("/", controllers.CustomerSearch(d.Customers, logg))
			r.Get("/{id}", controllers.CustomerGet(d.Customers, logg))
			r.Patch("/{id}", controllers.CustomerUpdate(d.Customers, logg))
			r.Delete("/{id}", controllers.CustomerDelete(d.Customers, logg))
			r.Get("/{id}/vehicles", controllers.CustomerVehicles(d.Customers, logg))
		})

		r.Route("/insurance-carriers", func(r chi.Router) {
			r.Get("/", controllers.CarrierList(d.Insurance, logg))
			r.With(middleware.RequireRole(enums.StaffRoleAdmin.String(), logg)).
				Post("/", controllers.CarrierCreate(d.Insurance, logg))
		})

		r.Get("/dashboard/summary", controllers.DashboardSummary(d.Dashboard, d.Location, logg))
	})

	return r
}
