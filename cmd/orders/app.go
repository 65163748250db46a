package main

import (
	"net/http"

	"github.com/diewo77/go-orders/internal/handlers"
	"github.com/diewo77/go-orders/internal/middleware"
	"github.com/diewo77/go-orders/internal/printing"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux    *http.ServeMux
	deps   *deps
	jobs   *printing.Jobs
	orders *handlers.OrderHandler
	sets   *handlers.SettingsHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(d *deps) *App {
	jobs := printing.NewJobs(d.cfg.App.PrintJobTTL)
	app := &App{
		mux:    http.NewServeMux(),
		deps:   d,
		jobs:   jobs,
		orders: handlers.NewOrderHandler(d.orders, d.settings, d.renderer, jobs),
		sets:   handlers.NewSettingsHandler(d.settings, d.renderer),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.Prefs(a.deps.cfg.App.Lang)(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	oh := a.orders
	sh := a.sets

	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/orders/new", http.StatusFound)
	})

	// Orders
	a.mux.HandleFunc("GET /orders", oh.List)
	a.mux.HandleFunc("GET /orders/new", oh.New)
	a.mux.HandleFunc("POST /orders", oh.Create)
	a.mux.HandleFunc("POST /orders/preview", oh.Preview)
	a.mux.HandleFunc("POST /orders/print", oh.PrintDraft)
	a.mux.HandleFunc("GET /orders/print-all", oh.PrintAll)
	a.mux.HandleFunc("GET /orders/{id}", oh.Show)
	a.mux.HandleFunc("GET /orders/{id}/edit", oh.Edit)
	a.mux.HandleFunc("POST /orders/{id}", oh.Update)
	a.mux.HandleFunc("POST /orders/{id}/delete", oh.Delete)
	a.mux.HandleFunc("POST /orders/{id}/status", oh.SetStatus)
	a.mux.HandleFunc("GET /orders/{id}/print", oh.Print)
	a.mux.HandleFunc("GET /orders/{id}/pdf", oh.PDF)

	// Print surface
	a.mux.HandleFunc("GET /print/{id}", a.jobs.Serve)

	// Company settings
	a.mux.HandleFunc("GET /settings", sh.Edit)
	a.mux.HandleFunc("POST /settings", sh.Update)
	a.mux.HandleFunc("GET /settings/preview", sh.Preview)
	a.mux.HandleFunc("POST /settings/preview", sh.Preview)

	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
