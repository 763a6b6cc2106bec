package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/payroll/internal/api"
	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/infra/storage"
	"github.com/vietddude/payroll/internal/settings"
)

// Deps carries everything the router needs.
type Deps struct {
	Users     storage.UserRepository
	Employees storage.EmployeeRepository
	Payroll   storage.PayrollRepository
	Settings  settings.Store
	Issuer    *auth.TokenIssuer
	Denylist  redis.Denylist
	Limiter   redis.RateLimiter
	Checks    map[string]api.HealthChecker
	Logger    *slog.Logger
}

// NewRouter creates and configures the HTTP router with all payroll routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(api.Metrics)
	r.Use(api.RequestLogger(deps.Logger))

	authn := &api.Authenticator{
		Issuer:   deps.Issuer,
		Gate:     auth.NewGate(),
		Denylist: deps.Denylist,
		Logger:   deps.Logger,
	}

	authHandler := api.NewAuthHandler(deps.Users, deps.Issuer, deps.Denylist, deps.Limiter, deps.Logger)
	userHandler := api.NewUserHandler(deps.Users)
	employeeHandler := api.NewEmployeeHandler(deps.Employees)
	payrollHandler := api.NewPayrollHandler(deps.Payroll, deps.Employees)
	settingsHandler := api.NewSettingsHandler(deps.Settings)
	systemHandler := api.NewSystemHandler(deps.Checks)

	// Public endpoints
	r.Get("/healthz", systemHandler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/auth/login", authHandler.Login)

	// Any authenticated user
	r.Group(func(r chi.Router) {
		r.Use(authn.Require(auth.AnyAuthenticated()))

		r.Post("/api/v1/auth/logout", authHandler.Logout)
		r.Get("/api/v1/me", authHandler.Me)
		r.Get("/api/v1/payslips", payrollHandler.Payslips)
		r.Get("/api/v1/payslips/{id}", payrollHandler.Payslip)
		r.Get("/api/v1/settings", settingsHandler.Get)
		r.Put("/api/v1/settings", settingsHandler.Update)
	})

	// Admin only
	r.Group(func(r chi.Router) {
		r.Use(authn.Require(auth.RequireRole(domain.RoleAdmin)))

		r.Post("/api/v1/users", userHandler.Create)
		r.Get("/api/v1/users", userHandler.List)
		r.Get("/api/v1/users/{id}", userHandler.Get)
		r.Put("/api/v1/users/{id}", userHandler.Update)
		r.Delete("/api/v1/users/{id}", userHandler.Delete)

		r.Post("/api/v1/employees", employeeHandler.Create)
		r.Get("/api/v1/employees", employeeHandler.List)
		r.Get("/api/v1/employees/{id}", employeeHandler.Get)
		r.Put("/api/v1/employees/{id}", employeeHandler.Update)
		r.Delete("/api/v1/employees/{id}", employeeHandler.Delete)

		r.Post("/api/v1/payroll", payrollHandler.Create)
		r.Get("/api/v1/payroll", payrollHandler.List)
		r.Get("/api/v1/payroll/{id}", payrollHandler.Get)
		r.Put("/api/v1/payroll/{id}", payrollHandler.Update)
		r.Delete("/api/v1/payroll/{id}", payrollHandler.Delete)
		r.Post("/api/v1/payroll/{id}/approve", payrollHandler.Approve)
		r.Post("/api/v1/payroll/{id}/pay", payrollHandler.Pay)

		r.Get("/api/v1/reports/monthly", payrollHandler.MonthlyReport)
	})

	return r
}
