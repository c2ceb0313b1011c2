package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradehub-app/tradehub-backend/api/controllers"
	"github.com/tradehub-app/tradehub-backend/api/middleware"
	"github.com/tradehub-app/tradehub-backend/internal/auth"
	"github.com/tradehub-app/tradehub-backend/internal/clients"
	"github.com/tradehub-app/tradehub-backend/internal/inventory"
	"github.com/tradehub-app/tradehub-backend/internal/jobs"
	"github.com/tradehub-app/tradehub-backend/internal/quotes"
	"github.com/tradehub-app/tradehub-backend/internal/suppliers"
	"github.com/tradehub-app/tradehub-backend/pkg/auth/session"
	"github.com/tradehub-app/tradehub-backend/pkg/config"
	"github.com/tradehub-app/tradehub-backend/pkg/logger"
	"github.com/tradehub-app/tradehub-backend/pkg/metrics"
	"github.com/tradehub-app/tradehub-backend/pkg/redis"
)

// Deps bundles everything the router needs. Pingers may be nil when a
// dependency is absent (tests).
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DB    controllers.Pinger
	Redis *redis.Client

	Sessions session.AccessSessionChecker

	Auth      auth.Service
	Clients   clients.Service
	Suppliers suppliers.Service
	Inventory inventory.Service
	Quotes    quotes.Service
	Jobs      jobs.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)
	r.Use(middleware.Metrics(httpMetrics))

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

	pingers := map[string]controllers.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", controllers.ClientCreate(deps.Clients, logg))
			r.Get("/", controllers.ClientList(deps.Clients, logg))
			r.Route("/{clientId}", func(r chi.Router) {
				r.Get("/", controllers.ClientGet(deps.Clients, logg))
				r.Patch("/", controllers.ClientUpdate(deps.Clients, logg))
				r.Delete("/", controllers.ClientDelete(deps.Clients, logg))
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.SupplierCreate(deps.Suppliers, logg))
			r.Get("/", controllers.SupplierList(deps.Suppliers, logg))
			r.Route("/{supplierId}", func(r chi.Router) {
				r.Get("/", controllers.SupplierGet(deps.Suppliers, logg))
				r.Patch("/", controllers.SupplierUpdate(deps.Suppliers, logg))
				r.Delete("/", controllers.SupplierDelete(deps.Suppliers, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(deps.Inventory, logg))
			r.Get("/", controllers.ItemList(deps.Inventory, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.ItemGet(deps.Inventory, logg))
				r.Patch("/", controllers.ItemUpdate(deps.Inventory, logg))
				r.Delete("/", controllers.ItemDelete(deps.Inventory, logg))
				r.Get("/stock", controllers.ItemStock(deps.Inventory, logg))
				r.Post("/adjust", controllers.ItemAdjust(deps.Inventory, logg))
				r.Post("/transactions", controllers.TransactionCreate(deps.Inventory, logg))
				r.Get("/transactions", controllers.TransactionList(deps.Inventory, logg))
			})
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(deps.Quotes, logg))
			r.Get("/", controllers.QuoteList(deps.Quotes, logg))
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", controllers.QuoteGet(deps.Quotes, logg))
				r.Post("/lines", controllers.QuoteAddLine(deps.Quotes, logg))
				r.Patch("/lines/{lineId}", controllers.QuoteUpdateLine(deps.Quotes, logg))
				r.Post("/approve", controllers.QuoteApprove(deps.Quotes, logg))
				r.Post("/decline", controllers.QuoteDecline(deps.Quotes, logg))
				r.Post("/copy-to-job/{jobId}", controllers.QuoteCopyToJob(deps.Quotes, logg))
			})
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", controllers.JobCreate(deps.Jobs, logg))
			r.Get("/", controllers.JobList(deps.Jobs, logg))
			r.Route("/{jobId}", func(r chi.Router) {
				r.Get("/", controllers.JobGet(deps.Jobs, logg))
				r.Post("/schedule", controllers.JobSchedule(deps.Jobs, logg))
				r.Post("/start", controllers.JobStart(deps.Jobs, logg))
				r.Post("/complete", controllers.JobComplete(deps.Jobs, logg))
				r.Post("/cancel", controllers.JobCancel(deps.Jobs, logg))
				r.Post("/materials", controllers.JobAddMaterial(deps.Jobs, logg))
				r.Post("/consume", controllers.JobConsume(deps.Jobs, logg))
			})
		})
	})

	return r
}
