package myenergi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	gwconfig "github.com/joshp123/gridgate/internal/config"
)

func TestStatusEndpoint(t *testing.T) {
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("WWW-Authenticate", `Digest realm="hub", nonce="abc", qop="auth"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"eddi":[{"div":1230,"stat":3}]}`)
	}))
	defer data.Close()

	director := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(serverHeader, data.URL)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer director.Close()

	plugin, ok := NewPlugin(&gwconfig.MyenergiConfig{
		Serial:      "hub123",
		APIKey:      "secret-key",
		DirectorURL: director.URL,
	})
	if !ok {
		t.Fatalf("expected plugin")
	}

	mux := http.NewServeMux()
	plugin.RegisterHTTP(mux)
	gateway := httptest.NewServer(mux)
	defer gateway.Close()

	resp, err := http.Get(gateway.URL + statusEndpoint)
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.DiversionKW != "1.23" || snapshot.Status != 3 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestStatusEndpointDataNotFound(t *testing.T) {
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"eddi":[]}`)
	}))
	defer data.Close()

	director := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(serverHeader, data.URL)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer director.Close()

	plugin, _ := NewPlugin(&gwconfig.MyenergiConfig{
		Serial:      "hub123",
		APIKey:      "secret-key",
		DirectorURL: director.URL,
	})

	mux := http.NewServeMux()
	plugin.RegisterHTTP(mux)
	gateway := httptest.NewServer(mux)
	defer gateway.Close()

	resp, err := http.Get(gateway.URL + statusEndpoint)
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing eddi data, got %d", resp.StatusCode)
	}
}

func TestStatusEndpointUnconfigured(t *testing.T) {
	mux := http.NewServeMux()
	Plugin{}.RegisterHTTP(mux)
	gateway := httptest.NewServer(mux)
	defer gateway.Close()

	resp, err := http.Get(gateway.URL + statusEndpoint)
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for missing configuration, got %d", resp.StatusCode)
	}
}
