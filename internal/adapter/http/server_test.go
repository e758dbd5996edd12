package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/seismic-histogram/internal/adapter/http"
	"github.com/couchcryptid/seismic-histogram/internal/domain"
	"github.com/couchcryptid/seismic-histogram/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	err     error
	reports []domain.Report
}

func (m *mockStore) CheckReadiness(_ context.Context) error { return m.err }
func (m *mockStore) Reports() []domain.Report               { return m.reports }

func sampleReports() []domain.Report {
	rng := domain.Range{StartYear: 2000, EndYear: 2001, LowMag: 6, HighMag: 7}
	return []domain.Report{
		{Source: "weedevent-new.txt", Range: rng, TotalEvents: 2, Histogram: domain.Histogram{
			Threshold: 6, Bins: []domain.Bin{{Year: 2000, Count: 1}, {Year: 2001, Count: 1}},
		}},
		{Source: "weedevent-new.txt", Range: rng, TotalEvents: 2, Histogram: domain.Histogram{
			Threshold: 7, Bins: []domain.Bin{{Year: 2000, Count: 0}, {Year: 2001, Count: 1}},
		}},
	}
}

func newTestServer(store *mockStore) *httpadapter.Server {
	return httpadapter.NewServer(":0", store, render.SizeInches(4, 3), slog.Default())
}

func serve(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(&mockStore{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(&mockStore{}), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(&mockStore{err: fmt.Errorf("sweep has not completed yet")}), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "sweep has not completed yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(&mockStore{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHistogramsListsAllReports(t *testing.T) {
	rec := serve(newTestServer(&mockStore{reports: sampleReports()}), "/histograms")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, 6, body[0].Histogram.Threshold)
	assert.Equal(t, 7, body[1].Histogram.Threshold)
}

func TestHistogramsEmptyBeforeSweep(t *testing.T) {
	rec := serve(newTestServer(&mockStore{}), "/histograms")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistogramByThreshold(t *testing.T) {
	srv := newTestServer(&mockStore{reports: sampleReports()})

	rec := serve(srv, "/histograms/7")
	assert.Equal(t, http.StatusOK, rec.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, map[int]int{2000: 0, 2001: 1}, report.Histogram.Map())

	assert.Equal(t, http.StatusNotFound, serve(srv, "/histograms/9").Code)
	assert.Equal(t, http.StatusBadRequest, serve(srv, "/histograms/seven").Code)
}

func TestChartByThreshold(t *testing.T) {
	srv := newTestServer(&mockStore{reports: sampleReports()})

	rec := serve(srv, "/charts/6")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, serve(srv, "/charts/2").Code)
}
