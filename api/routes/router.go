package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/servicebay-backend/api/controllers"
	"github.com/angelmondragon/servicebay-backend/api/middleware"
	"github.com/angelmondragon/servicebay-backend/internal/auth"
	"github.com/angelmondragon/servicebay-backend/internal/catalog"
	"github.com/angelmondragon/servicebay-backend/internal/servicerecords"
	"github.com/angelmondragon/servicebay-backend/internal/users"
	"github.com/angelmondragon/servicebay-backend/internal/vehicles"
	"github.com/angelmondragon/servicebay-backend/pkg/auth/session"
	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/angelmondragon/servicebay-backend/pkg/metrics"
	"github.com/angelmondragon/servicebay-backend/pkg/redis"
)

// Params lists everything the HTTP surface is built from. Nil services answer 500.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Auth          auth.Service
	AdminRegister auth.AdminRegisterService
	Catalog       catalog.Service
	Vehicles      vehicles.Service
	Advisors      users.AdvisorService
	Records       servicerecords.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readyDeps := map[string]controllers.Pinger{}
	if p.DB != nil {
		readyDeps["db"] = p.DB
	}
	if p.Redis != nil {
		readyDeps["redis"] = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimit, registerLimit := passthrough, passthrough
	if p.Redis != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, p.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, p.Redis, logg)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/Login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/Logout", controllers.AuthLogout(p.Auth, logg))
		r.Post("/Refresh", controllers.AuthRefresh(p.Auth, logg))
	})

	if !cfg.App.IsProd() {
		r.With(registerLimit).Post("/api/admin/auth/register", controllers.AdminAuthRegister(p.AdminRegister, p.Auth, cfg, logg))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		if p.Redis != nil {
			r.Use(middleware.Idempotency(p.Redis, logg))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserTypeAdmin))
			adminRoutes(r, p)
		})

		r.Route("/serviceadvisor", func(r chi.Router) {
			serviceAdvisorRoutes(r, p)
		})
	})

	return r
}

func adminRoutes(r chi.Router, p Params) {
	logg := p.Logger
	due := enums.ServiceStatusDue
	underService := enums.ServiceStatusUnderService
	completed := enums.ServiceStatusCompleted

	r.Post("/ScheduleService", controllers.ScheduleService(p.Records, logg))
	r.Get("/GetServiceRecords", controllers.ServiceRecordList(p.Records, nil, logg))
	r.Get("/ScheduledServices", controllers.ServiceRecordList(p.Records, &due, logg))
	r.Get("/VehiclesUnderServicing", controllers.ServiceRecordList(p.Records, &underService, logg))
	r.Get("/VehiclesServiced", controllers.ServiceRecordList(p.Records, &completed, logg))
	r.Get("/ServiceRecord/{id}", controllers.ServiceRecordDetail(p.Records, logg))
	r.Post("/CreateInvoice", controllers.CreateInvoice(p.Records, logg))
	r.Post("/ProcessPayment", controllers.ProcessPayment(p.Records, logg))
	r.Post("/DispatchServiceRecord", controllers.DispatchServiceRecord(p.Records, logg))

	r.Get("/GetVehicles", controllers.VehicleList(p.Vehicles, logg))
	r.Post("/CreateVehicles", controllers.VehicleCreate(p.Vehicles, logg))
	r.Route("/Vehicles/{id}", func(r chi.Router) {
		r.Get("/", controllers.VehicleGet(p.Vehicles, logg))
		r.Put("/", controllers.VehicleUpdate(p.Vehicles, logg))
		r.Delete("/", controllers.VehicleDelete(p.Vehicles, logg))
	})

	r.Get("/GetSA", controllers.AdvisorList(p.Advisors, logg))
	r.Post("/CreateSA", controllers.AdvisorCreate(p.Advisors, logg))
	r.Route("/SA/{id}", func(r chi.Router) {
		r.Put("/", controllers.AdvisorUpdate(p.Advisors, logg))
		r.Delete("/", controllers.AdvisorDelete(p.Advisors, logg))
	})

	r.Get("/GetWorkItem", controllers.WorkItemList(p.Catalog, logg))
	r.Get("/GetWorkItem/{id}", controllers.WorkItemGet(p.Catalog, logg))
	r.Post("/CreateWorkItem", controllers.WorkItemCreate(p.Catalog, logg))
	r.Put("/UpdateWorkItem/{id}", controllers.WorkItemUpdate(p.Catalog, logg))
	r.Delete("/DeleteWorkItem/{id}", controllers.WorkItemDelete(p.Catalog, logg))
}

func serviceAdvisorRoutes(r chi.Router, p Params) {
	logg := p.Logger
	advisorOnly := middleware.RequireRole(logg, enums.UserTypeServiceAdvisor)

	r.With(advisorOnly).Get("/ScheduledServices", controllers.ScheduledServices(p.Records, logg))
	r.With(middleware.RequireRole(logg, enums.UserTypeServiceAdvisor, enums.UserTypeAdmin)).
		Get("/ServiceRecord/{id}", controllers.ServiceRecordDetail(p.Records, logg))
	r.With(advisorOnly).Post("/AddServiceItem", controllers.AddServiceItem(p.Records, logg))
	r.With(advisorOnly).Post("/StartServiceRecord/{id}", controllers.StartServiceRecord(p.Records, logg))
	r.With(advisorOnly).Post("/CompleteServiceRecord/{id}", controllers.CompleteServiceRecord(p.Records, logg))
}

func passthrough(next http.Handler) http.Handler {
	return next
}
