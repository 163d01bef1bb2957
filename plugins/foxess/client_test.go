package foxess

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joshp123/gridgate/internal/fault"
)

func newTestClient(t *testing.T, baseURL string, reportsWatts bool) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Token:        "test-token",
		DeviceSN:     "SN123",
		BaseURL:      baseURL,
		ReportsWatts: reportsWatts,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return client
}

func TestRealtimeSignedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != realtimePath {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("token") != "test-token" {
			t.Fatalf("unexpected token header: %s", r.Header.Get("token"))
		}
		if r.Header.Get("timestamp") != "1700000000000" {
			t.Fatalf("unexpected timestamp header: %s", r.Header.Get("timestamp"))
		}
		if want := signPath(realtimePath, "test-token", 1700000000000); r.Header.Get("signature") != want {
			t.Fatalf("signature = %s, want %s", r.Header.Get("signature"), want)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"sn":"SN123"`) {
			t.Fatalf("expected device serial in payload, got %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"errno":0,"result":{"datas":[
			{"variable":"pvPower","value":3.456},
			{"variable":"gridConsumptionPower","value":0.204}
		]}}`)
	}))
	defer server.Close()

	snapshot, err := newTestClient(t, server.URL, false).Realtime(context.Background())
	if err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if snapshot.SolarKW != 3.46 {
		t.Fatalf("unexpected solar: %v", snapshot.SolarKW)
	}
	if snapshot.GridKW != 0.2 {
		t.Fatalf("unexpected grid: %v", snapshot.GridKW)
	}
	// Missing state-of-charge record reads as zero, not an error.
	if snapshot.BatteryPercent != 0 {
		t.Fatalf("unexpected battery: %v", snapshot.BatteryPercent)
	}
}

func TestRealtimeWattReportingVariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"errno":0,"result":{"datas":[
			{"key":"pvPower","value":3456},
			{"key":"SoC","value":76},
			{"key":"gridConsumptionPower","value":204}
		]}}`)
	}))
	defer server.Close()

	snapshot, err := newTestClient(t, server.URL, true).Realtime(context.Background())
	if err != nil {
		t.Fatalf("Realtime: %v", err)
	}
	if snapshot.SolarKW != 3.46 {
		t.Fatalf("unexpected solar: %v", snapshot.SolarKW)
	}
	if snapshot.BatteryPercent != 76 {
		t.Fatalf("unexpected battery: %v", snapshot.BatteryPercent)
	}
	if snapshot.GridKW != 0.2 {
		t.Fatalf("unexpected grid: %v", snapshot.GridKW)
	}
}

func TestRealtimeApplicationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"errno":40257,"msg":"token invalid"}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, false).Realtime(context.Background())
	if fault.KindOf(err) != fault.UpstreamError {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRealtimeRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, false).Realtime(context.Background())
	if fault.KindOf(err) != fault.AuthRejected {
		t.Fatalf("expected auth rejected, got %v", err)
	}
}

func TestRealtimeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	_, err := newTestClient(t, server.URL, false).Realtime(context.Background())
	if fault.KindOf(err) != fault.Transport {
		t.Fatalf("expected transport error, got %v", err)
	}
}
