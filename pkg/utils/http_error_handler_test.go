package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, map[string]string{"amount": "must be greater than 0"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" || body.Details["amount"] != "must be greater than 0" {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteErrorOmitsDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "transaction not found", http.StatusNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var raw map[string]any
	json.NewDecoder(rec.Body).Decode(&raw)
	if _, ok := raw["details"]; ok {
		t.Errorf("details present in %v", raw)
	}
	if raw["message"] != "transaction not found" {
		t.Errorf("message = %v", raw["message"])
	}
}
