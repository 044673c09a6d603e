package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmarquez/autoglass-backend/api/middleware"
)

func TestAppointmentDetailInvalidID(t *testing.T) {
	handler := AppointmentDetail(nil, nil)

	r := chi.NewRouter()
	r.Get("/api/v1/appointments/{id}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAppointmentCreateMalformedBody(t *testing.T) {
	handler := AppointmentCreate(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(`{"customer":`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAppointmentListRejectsBadStatusFilter(t *testing.T) {
	handler := AppointmentList(nil, time.UTC, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?status=done", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAppointmentListRejectsBadDate(t *testing.T) {
	handler := AppointmentList(nil, time.UTC, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?from=09-01-2026", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestActorFromContextFallsBackToUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := actorFromContext(req); got != "system" {
		t.Fatalf("expected system got %q", got)
	}

	ctx := middleware.WithUserID(req.Context(), "user-1")
	if got := actorFromContext(req.WithContext(ctx)); got != "user-1" {
		t.Fatalf("expected user-1 got %q", got)
	}
}
