package main

import (
	"net/http"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/diewo77/go-crm/internal/handlers"
	"github.com/diewo77/go-crm/internal/middleware"
	"github.com/diewo77/go-crm/internal/repository"
	"github.com/diewo77/go-crm/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	db      *db.DB
	issuer  *auth.Issuer

	auth         *handlers.AuthHandler
	companies    *handlers.CompanyHandler
	calls        *handlers.CallHandler
	appointments *handlers.AppointmentHandler
	users        *handlers.UserHandler
	stats        *handlers.StatsHandler
}

// NewApp wires repositories, services and handlers on top of d.
func NewApp(d *db.DB, cfg *config.Config) *App {
	v := api.NewValidator()
	users := repository.NewUsers(d.Gorm)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	app := &App{
		mux:          http.NewServeMux(),
		db:           d,
		issuer:       issuer,
		auth:         handlers.NewAuthHandler(services.NewAuth(users, issuer), v),
		companies:    handlers.NewCompanyHandler(repository.NewCompanies(d.Gorm), v),
		calls:        handlers.NewCallHandler(repository.NewCalls(d.Gorm), v),
		appointments: handlers.NewAppointmentHandler(repository.NewAppointments(d.Gorm), v),
		users:        handlers.NewUserHandler(users, v),
		stats:        handlers.NewStatsHandler(repository.NewStats(d)),
	}
	app.setupRoutes()
	app.handler = middleware.Chain(app.mux,
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.Logging,
		middleware.Prefs,
		middleware.Recover,
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// Public
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.healthz)
	a.mux.HandleFunc("POST /api/auth/login", a.auth.Login)
	a.mux.HandleFunc("POST /api/auth/signup", a.auth.Signup)
	a.mux.HandleFunc("GET /api/auth/verify", a.auth.Verify)

	// Companies
	ch := a.companies
	a.mux.Handle("GET /api/companies", a.requireAuth(ch.List))
	a.mux.Handle("POST /api/companies", a.requireAuth(ch.Create))
	a.mux.Handle("GET /api/companies/search/{term}", a.requireAuth(ch.Search))
	a.mux.Handle("GET /api/companies/{id}", a.requireAuth(ch.Get))
	a.mux.Handle("PUT /api/companies/{id}", a.requireAuth(ch.Update))
	a.mux.Handle("DELETE /api/companies/{id}", a.requireAuth(ch.Delete))

	// Calls
	cl := a.calls
	a.mux.Handle("GET /api/calls", a.requireAuth(cl.List))
	a.mux.Handle("POST /api/calls", a.requireAuth(cl.Create))
	a.mux.Handle("GET /api/calls/company/{companyId}", a.requireAuth(cl.ByCompany))
	a.mux.Handle("GET /api/calls/{id}", a.requireAuth(cl.Get))
	a.mux.Handle("PUT /api/calls/{id}", a.requireAuth(cl.Update))
	a.mux.Handle("DELETE /api/calls/{id}", a.requireAuth(cl.Delete))

	// Appointments
	ap := a.appointments
	a.mux.Handle("GET /api/appointments", a.requireAuth(ap.List))
	a.mux.Handle("POST /api/appointments", a.requireAuth(ap.Create))
	a.mux.Handle("GET /api/appointments/today", a.requireAuth(ap.Today))
	a.mux.Handle("GET /api/appointments/company/{companyId}", a.requireAuth(ap.ByCompany))
	a.mux.Handle("GET /api/appointments/{id}", a.requireAuth(ap.Get))
	a.mux.Handle("PUT /api/appointments/{id}", a.requireAuth(ap.Update))
	a.mux.Handle("DELETE /api/appointments/{id}", a.requireAuth(ap.Delete))

	// Users
	uh := a.users
	a.mux.Handle("GET /api/users", a.requireAuth(uh.List))
	a.mux.Handle("POST /api/users", a.requireAuth(uh.Create))
	a.mux.Handle("GET /api/users/role/{role}", a.requireAuth(uh.ByRole))
	a.mux.Handle("GET /api/users/status/active", a.requireAuth(uh.Active))
	a.mux.Handle("GET /api/users/{id}", a.requireAuth(uh.Get))
	a.mux.Handle("PUT /api/users/{id}", a.requireAuth(uh.Update))
	a.mux.Handle("DELETE /api/users/{id}", a.requireAuth(uh.Delete))

	// Stats
	sh := a.stats
	a.mux.Handle("GET /api/stats", a.requireAuth(sh.Overview))
	a.mux.Handle("GET /api/stats/user/{id}", a.requireAuth(sh.User))
	a.mux.Handle("GET /api/stats/monthly", a.requireAuth(sh.Monthly))
	a.mux.Handle("GET /api/stats/sector", a.requireAuth(sh.Sectors))
	a.mux.Handle("GET /api/stats/performance", a.requireAuth(sh.Performance))
	a.mux.Handle("GET /api/stats/report", a.requireAuth(sh.Report))
}

// requireAuth wraps a handler so it only runs with a valid bearer token.
func (a *App) requireAuth(h http.HandlerFunc) http.Handler {
	return a.issuer.Middleware(h)
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
