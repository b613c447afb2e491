package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatsSvc struct{ mock.Mock }

func (m *mockStatsSvc) Get(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if s, _ := args.Get(0).(*domain.Stats); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSummaryRunner struct{ mock.Mock }

func (m *mockSummaryRunner) Run(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestStats(t *testing.T) {
	svc := &mockStatsSvc{}
	svc.On("Get", mock.Anything).Return(&domain.Stats{
		TotalRows:          10,
		TotalFiles:         2,
		UniqueRoutes:       3,
		EquipmentBreakdown: []domain.EquipmentCount{{Equipment: "Van", Count: 10}},
		TopRoutes:          []domain.RouteCount{},
	}, nil)

	rr := httptest.NewRecorder()
	NewStatsHandler(svc).Get(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.EqualValues(t, 10, body["totalRows"])
	assert.EqualValues(t, 2, body["totalFiles"])
	assert.EqualValues(t, 3, body["uniqueRoutes"])
}

func TestStats_Error(t *testing.T) {
	svc := &mockStatsSvc{}
	svc.On("Get", mock.Anything).Return(nil, errors.New("db down"))

	rr := httptest.NewRecorder()
	NewStatsHandler(svc).Get(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to fetch stats", decodeBody(t, rr)["error"])
}

func TestCronSummaries(t *testing.T) {
	runner := &mockSummaryRunner{}
	runner.On("Run", mock.Anything).Return(int64(42), nil)
	h := NewCronHandler(runner)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC) }

	rr := httptest.NewRecorder()
	h.Summaries(rr, httptest.NewRequest(http.MethodPost, "/api/cron/summaries", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Generated 42 route summaries","timestamp":"2024-05-01T06:00:00Z"}`, rr.Body.String())
}

func TestCronSummaries_Error(t *testing.T) {
	runner := &mockSummaryRunner{}
	runner.On("Run", mock.Anything).Return(int64(0), errors.New("deadlock"))

	rr := httptest.NewRecorder()
	NewCronHandler(runner).Summaries(rr, httptest.NewRequest(http.MethodPost, "/api/cron/summaries", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestPages(t *testing.T) {
	h := NewPageHandler()
	for name, serve := range map[string]http.HandlerFunc{"login": h.Login, "index": h.Index} {
		rr := httptest.NewRecorder()
		serve(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code, name)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"), name)
		assert.Contains(t, rr.Body.String(), "<!DOCTYPE html>", name)
	}
}

func TestHealthPing(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Ping(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/health-check/ping", nil), "action", "ping"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", decodeBody(t, rr)["message"])

	rr = httptest.NewRecorder()
	h.Ping(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/health-check/other", nil), "action", "other"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrBadRequest))
	assert.Equal(t, http.StatusUnauthorized, statusFor(domain.ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.ErrForbidden))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
