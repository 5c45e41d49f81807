package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gocompare/internal"
	"gocompare/ports"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App serves stored comparison runs as HTML pages and SVG charts.
type App struct {
	router    *chi.Mux
	repo      ports.ResultRepository
	templates *template.Template
	config    Config
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates a new UI application over repo
func NewApp(config Config, repo ports.ResultRepository) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	app := &App{
		router:    chi.NewRouter(),
		repo:      repo,
		templates: templates,
		config:    config,
		logger:    internal.DefaultLogger.WithComponent("UI"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/chart.svg", a.handleLatestChart)
	a.router.Get("/runs/{id}", a.handleRun)
	a.router.Get("/runs/{id}/chart.svg", a.handleRunChart)
	a.router.Get("/health", a.handleHealth)
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	a.logger.Info("Starting comparison UI on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
