package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joshp123/gridgate/internal/fault"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "data not found",
			err:        fault.New("myenergi", "normalize", fault.DataNotFound, errors.New("no eddi records")),
			wantStatus: http.StatusNotFound,
			wantBody:   string(fault.DataNotFound),
		},
		{
			name:       "auth rejected",
			err:        fault.New("myenergi", "auth", fault.AuthRejected, errors.New("status 401")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   string(fault.AuthRejected),
		},
		{
			name:       "unclassified",
			err:        errors.New("secret-api-key leaked"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Fatalf("body error = %q, want %q", body["error"], tt.wantBody)
			}
			// The response never echoes the wrapped detail.
			if strings.Contains(rec.Body.String(), "secret-api-key") {
				t.Fatalf("response leaked error detail: %s", rec.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/myenergi/status", nil))
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing allow-origin header")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/myenergi/status", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
