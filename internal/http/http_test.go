package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, map[string]float64{"value": 1.5}, http.StatusCreated)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"value":1.5}` {
		t.Errorf("body = %q", body)
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, map[string]float64{"value": math.Inf(1)}, http.StatusOK)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"could not encode response"}` {
		t.Errorf("body = %q", body)
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, "bad input", http.StatusBadRequest)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"bad input"}` {
		t.Errorf("body = %q", body)
	}
}
