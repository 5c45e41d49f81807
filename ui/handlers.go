package ui

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/internal/report"
	"gocompare/ports"
	"gocompare/ui/chart"

	"github.com/go-chi/chi/v5"
)

// runPage is the data for run.html
type runPage struct {
	Title  string
	Run    *ports.StoredRun
	Chart  template.HTML
	Report template.HTML
	Runs   []run.Manifest
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repo.LatestRun(r.Context())
	if core.IsNotFoundError(err) {
		a.renderTemplate(w, "run.html", runPage{Title: chart.Title})
		return
	}
	if err != nil {
		a.logger.Error("failed to load latest run: %v", err)
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}
	a.renderRun(w, r.Context(), stored)
}

func (a *App) handleRun(w http.ResponseWriter, r *http.Request) {
	stored, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	a.renderRun(w, r.Context(), stored)
}

func (a *App) handleLatestChart(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repo.LatestRun(r.Context())
	if core.IsNotFoundError(err) {
		http.Error(w, "No runs yet", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}
	a.writeChart(w, stored)
}

func (a *App) handleRunChart(w http.ResponseWriter, r *http.Request) {
	stored, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	a.writeChart(w, stored)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// loadRun resolves {id}; it writes the error response itself.
func (a *App) loadRun(w http.ResponseWriter, r *http.Request) (*ports.StoredRun, bool) {
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	stored, err := a.repo.GetRun(r.Context(), runID)
	if core.IsNotFoundError(err) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		a.logger.Error("failed to load run %s: %v", runID, err)
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return nil, false
	}
	return stored, true
}

func (a *App) renderRun(w http.ResponseWriter, ctx context.Context, stored *ports.StoredRun) {
	var svg bytes.Buffer
	if err := chart.RenderSVG(&svg, chart.Build(stored.Records)); err != nil {
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	runs, err := a.repo.ListRuns(ctx, 20)
	if err != nil {
		a.logger.Warn("failed to list runs: %v", err)
	}

	a.renderTemplate(w, "run.html", runPage{
		Title:  chart.Title,
		Run:    stored,
		Chart:  inlineSVG(&svg),
		Report: renderMarkdown(report.Markdown(&stored.Manifest, stored.Records)),
		Runs:   runs,
	})
}

func (a *App) writeChart(w http.ResponseWriter, stored *ports.StoredRun) {
	var svg bytes.Buffer
	if err := chart.RenderSVG(&svg, chart.Build(stored.Records)); err != nil {
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg.Bytes())
}
