package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterhttp "github.com/ridgelinegeo/snowbelt-pipeline/internal/adapter/http"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

type stubStatus struct {
	readyErr error
	summary  domain.Summary
}

func (s *stubStatus) CheckReadiness(context.Context) error { return s.readyErr }
func (s *stubStatus) Summary() domain.Summary              { return s.summary }

func doRequest(t *testing.T, status adapterhttp.StatusReporter, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := adapterhttp.NewServer(":0", status, slog.Default())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, &stubStatus{}, nethttp.MethodGet, "/healthz")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	rec := doRequest(t, &stubStatus{}, nethttp.MethodGet, "/readyz")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadyz_NotReady(t *testing.T) {
	status := &stubStatus{readyErr: errors.New("analysis has not completed yet")}
	rec := doRequest(t, status, nethttp.MethodGet, "/readyz")

	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "not completed")
}

func TestSummary(t *testing.T) {
	status := &stubStatus{
		summary: domain.Summary{
			StationsLoaded:   3,
			StationsNoData:   1,
			StationsFiltered: 1,
			CitiesMatched:    1,
			GeneratedAt:      time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC),
		},
	}
	rec := doRequest(t, status, nethttp.MethodGet, "/summary")

	require.Equal(t, nethttp.StatusOK, rec.Code)

	var got domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, status.summary, got)
}

func TestSummary_NotReady(t *testing.T) {
	status := &stubStatus{readyErr: errors.New("analysis has not completed yet")}
	rec := doRequest(t, status, nethttp.MethodGet, "/summary")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	rec := doRequest(t, &stubStatus{}, nethttp.MethodGet, "/metrics")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, &stubStatus{}, nethttp.MethodPost, "/healthz")
	assert.Equal(t, nethttp.StatusMethodNotAllowed, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := doRequest(t, &stubStatus{}, nethttp.MethodGet, "/nope")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}
