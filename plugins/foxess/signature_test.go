package foxess

import (
	"testing"
)

func TestSignPathKnownAnswer(t *testing.T) {
	const want = "48e5540f6c24373d5f27f36e0e7905a5"
	got := signPath("/api/v1/device/realtime", "tok", 1700000000000)
	if got != want {
		t.Fatalf("signPath = %s, want %s", got, want)
	}

	// Deterministic: same inputs, same signature.
	if again := signPath("/api/v1/device/realtime", "tok", 1700000000000); again != got {
		t.Fatalf("signPath not deterministic: %s vs %s", again, got)
	}
}

func TestSignPathInputSensitivity(t *testing.T) {
	base := signPath("/api/v1/device/realtime", "tok", 1700000000000)

	if sig := signPath("/api/v1/device/history", "tok", 1700000000000); sig == base {
		t.Fatalf("signature unchanged for different path")
	}
	if sig := signPath("/api/v1/device/realtime", "other", 1700000000000); sig == base {
		t.Fatalf("signature unchanged for different token")
	}
	if sig := signPath("/api/v1/device/realtime", "tok", 1700000000001); sig == base {
		t.Fatalf("signature unchanged for different timestamp")
	}
}

func TestSignedHeaders(t *testing.T) {
	headers := signedHeaders("/api/v1/device/realtime", "tok", 1700000000000)

	if headers["token"] != "tok" {
		t.Fatalf("unexpected token header: %s", headers["token"])
	}
	if headers["timestamp"] != "1700000000000" {
		t.Fatalf("unexpected timestamp header: %s", headers["timestamp"])
	}
	if headers["signature"] != "48e5540f6c24373d5f27f36e0e7905a5" {
		t.Fatalf("unexpected signature header: %s", headers["signature"])
	}
}
