package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/pkg/db/models"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

func newCarrierService(t *testing.T) *insurance.Service {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec(`CREATE TABLE general_insurance (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return insurance.NewService(insurance.NewRepository(db), logg)
}

func TestCarrierCreateAndList(t *testing.T) {
	svc := newCarrierService(t)

	create := CarrierCreate(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance-carriers", bytes.NewBufferString(`{"name":"Allstate","phone":"800-555-0199"}`))
	rec := httptest.NewRecorder()
	create.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	list := CarrierList(svc, nil)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/insurance-carriers", nil)
	rec = httptest.NewRecorder()
	list.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data []models.GeneralInsurance `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 carrier got %d", len(envelope.Data))
	}
	if envelope.Data[0].Name != "Allstate" {
		t.Fatalf("expected Allstate got %q", envelope.Data[0].Name)
	}
}

func TestCarrierCreateMissingName(t *testing.T) {
	svc := newCarrierService(t)

	handler := CarrierCreate(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance-carriers", bytes.NewBufferString(`{"phone":"800-555-0199"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCarrierCreateRejectsUnknownFields(t *testing.T) {
	svc := newCarrierService(t)

	handler := CarrierCreate(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance-carriers", bytes.NewBufferString(`{"name":"Geico","rating":5}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
