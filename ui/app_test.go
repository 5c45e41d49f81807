package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gocompare/adapters/memory"
	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithRun(t *testing.T) (*memory.ResultStore, *run.Manifest) {
	t.Helper()
	records := []comparison.ResultRecord{
		{
			GroupID: "1", NSingle: 50, NDual: 25,
			MeanSingle: core.SomeFloat(80.8), MeanDual: core.SomeFloat(75),
			PValue:  core.SomeFloat(0.000002),
			Verdict: verdict.FavorSingle,
		},
		{GroupID: "2", NDual: 20, Verdict: verdict.InsufficientData},
	}
	m := run.NewManifest("scores.xlsx", nil, comparison.ValidationReport{InputRows: 4}, 1)
	m.Complete(records)

	store := memory.NewResultStore(0)
	require.NoError(t, store.WriteResults(context.Background(), m, records))
	return store, m
}

func get(t *testing.T, app *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApp_EmptyStore(t *testing.T) {
	app, err := NewApp(Config{}, memory.NewResultStore(0))
	require.NoError(t, err)

	rec := get(t, app, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No comparison runs yet")

	assert.Equal(t, http.StatusNotFound, get(t, app, "/chart.svg").Code)
	assert.Equal(t, http.StatusOK, get(t, app, "/health").Code)
}

func TestApp_LatestRun(t *testing.T) {
	store, m := storeWithRun(t)
	app, err := NewApp(Config{Port: "0"}, store)
	require.NoError(t, err)

	rec := get(t, app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Significant difference favoring Single")
	assert.Contains(t, body, "/runs/"+m.RunID.String())

	svg := get(t, app, "/chart.svg")
	assert.Equal(t, http.StatusOK, svg.Code)
	assert.Equal(t, "image/svg+xml", svg.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(svg.Body.String(), "<svg"))
}

func TestApp_RunByID(t *testing.T) {
	store, m := storeWithRun(t)
	app, err := NewApp(Config{}, store)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, app, "/runs/"+m.RunID.String()).Code)
	assert.Equal(t, http.StatusOK, get(t, app, "/runs/"+m.RunID.String()+"/chart.svg").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, app, "/runs/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, get(t, app, "/runs/"+core.NewRunID().String()).Code)
}
