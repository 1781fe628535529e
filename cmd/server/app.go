package main

import (
	"net/http"
	"time"

	"github.com/diewo77/go-billing/internal/handlers"
	"github.com/diewo77/go-billing/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

// NewApp wires the service and handlers and configures the route table.
func NewApp(db *gorm.DB, renderer handlers.PDFRenderer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{
		mux:    http.NewServeMux(),
		logger: logger,
	}

	svc := services.NewBillingService(db)
	ch := handlers.NewCustomerHandler(svc)
	ph := handlers.NewProductHandler(svc)
	bh := handlers.NewBillingHandler(svc, renderer, logger)

	app.mux.HandleFunc("GET /{$}", ch.List)
	app.mux.HandleFunc("GET /add_customer", ch.New)
	app.mux.HandleFunc("POST /add_customer", ch.Create)
	app.mux.HandleFunc("GET /customer/{id}", ch.View)
	app.mux.HandleFunc("POST /delete_customer/{id}", ch.Delete)

	app.mux.HandleFunc("GET /products", ph.List)
	app.mux.HandleFunc("GET /add_product", ph.New)
	app.mux.HandleFunc("POST /add_product", ph.Create)
	app.mux.HandleFunc("POST /delete_product/{id}", ph.Delete)

	app.mux.HandleFunc("GET /add_billing/{id}", bh.New)
	app.mux.HandleFunc("POST /add_billing/{id}", bh.Create)
	app.mux.HandleFunc("GET /generate_pdf/{id}", bh.PDF)

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	a.mux.ServeHTTP(w, r)
	a.logger.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)))
}
