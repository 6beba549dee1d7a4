package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase/attribution"
	shavedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/shave"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type stubShaveUsecase struct {
	usecase.ShaveUsecase
	created *shavedto.CreateShaveInput
}

func (s *stubShaveUsecase) CreateShave(_ context.Context, input *shavedto.CreateShaveInput) (*domain.ShaveRelation, error) {
	if input.TargetID == input.BeneficiaryID {
		return nil, domain.ErrInvalidShave
	}
	s.created = input
	return &domain.ShaveRelation{
		ID:            "s1",
		TargetID:      input.TargetID,
		BeneficiaryID: input.BeneficiaryID,
		Commission:    domain.PercentageCommission{Percent: input.ShaveParams.Value},
	}, nil
}

func (s *stubShaveUsecase) DeleteShave(context.Context, string) error {
	return domain.ErrShaveNotFound
}

func (s *stubShaveUsecase) ShavePercentageForDate(_ context.Context, _ string, date time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(30), nil
}

type stubAttributionUsecase struct {
	attribution.AttributionUsecase
	err error
}

func (s *stubAttributionUsecase) RunDaily(context.Context) (*attribution.RunReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &attribution.RunReport{
		RunID:    "abc",
		Day:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Assigned: 3,
		ByUser:   map[string]int{"O": 2, "B": 1},
	}, nil
}

func newTestRouter(shaves usecase.ShaveUsecase, attributionUC attribution.AttributionUsecase) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(
		NewShaveHandler(shaves, time.UTC, logger),
		NewTrackingCodeHandler(nil, logger),
		NewManagerHandler(nil, logger),
		NewFtdAssignmentHandler(attributionUC, time.UTC, logger),
		RouterConfig{Gatherer: prometheus.NewRegistry()},
		logger,
	)
}

func TestCreateShave(t *testing.T) {
	shaves := &stubShaveUsecase{}
	router := newTestRouter(shaves, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shaves", strings.NewReader(`{"target_id":"O","beneficiary_id":"B","value":"20"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body response.ShaveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "s1" || body.CommissionType != "percentage" || !body.Value.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestShaveErrorsMapToStatus(t *testing.T) {
	router := newTestRouter(&stubShaveUsecase{}, nil)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/v1/shaves", `{"target_id":"O","beneficiary_id":"O","value":20}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/shaves", `{"target_id":`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/shaves", `{"unknown":1}`, http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/shaves/missing", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/shaves/percentage", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/shaves/percentage?target_id=O&date=10-05-2024", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestShavePercentage(t *testing.T) {
	router := newTestRouter(&stubShaveUsecase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shaves/percentage?target_id=O&date=2024-05-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body response.ShavePercentageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Date != "2024-05-10" || !body.Percentage.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestRunAttributionEndpoint(t *testing.T) {
	router := newTestRouter(nil, &stubAttributionUsecase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/ftd-attribution/run", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body response.RunReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RunID != "abc" || body.Day != "2024-05-10" || body.ByUser["O"] != 2 || body.FailedOwners == nil {
		t.Fatalf("unexpected report %+v", body)
	}

	busy := newTestRouter(nil, &stubAttributionUsecase{err: domain.ErrRunInProgress})
	rec = httptest.NewRecorder()
	busy.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/ftd-attribution/run", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a run is in progress, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(nil, nil)

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
