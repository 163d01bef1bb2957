package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":9000"
myenergi:
  serial: "12345678"
  api_key: "hub-key"
foxess:
  token: "fox-token"
  device_sn: "SN123"
  reports_watts: true
mqtt:
  broker: "tcp://broker:1883"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("unexpected http_addr: %s", cfg.HTTPAddr)
	}
	if cfg.Myenergi == nil || cfg.Myenergi.Serial != "12345678" || cfg.Myenergi.APIKey != "hub-key" {
		t.Fatalf("unexpected myenergi config: %+v", cfg.Myenergi)
	}
	if cfg.Foxess == nil || !cfg.Foxess.ReportsWatts {
		t.Fatalf("unexpected foxess config: %+v", cfg.Foxess)
	}
	if cfg.MQTT == nil || cfg.MQTT.TopicPrefix != DefaultTopicPrefix {
		t.Fatalf("expected mqtt topic prefix default, got %+v", cfg.MQTT)
	}
	if cfg.MQTT.IntervalSeconds != DefaultPublishIntervalSeconds {
		t.Fatalf("expected mqtt interval default, got %d", cfg.MQTT.IntervalSeconds)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != DefaultHTTPAddr {
		t.Fatalf("unexpected http_addr: %s", cfg.HTTPAddr)
	}
	if cfg.Myenergi != nil || cfg.Foxess != nil || cfg.MQTT != nil {
		t.Fatalf("expected no plugin sections, got %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GRIDGATE_MYENERGI_SERIAL", "87654321")
	t.Setenv("GRIDGATE_MYENERGI_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Myenergi == nil {
		t.Fatalf("expected myenergi section from environment")
	}
	if cfg.Myenergi.Serial != "87654321" || cfg.Myenergi.APIKey != "env-key" {
		t.Fatalf("unexpected myenergi config: %+v", cfg.Myenergi)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
myenergi:
  serial: "12345678"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing api_key")
	}

	path = writeConfig(t, `
foxess:
  token: "fox-token"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing device_sn")
	}
}

func TestEnabledPlugins(t *testing.T) {
	enabled := EnabledPlugins(&Config{Myenergi: &MyenergiConfig{}})
	if !enabled["myenergi"] || enabled["foxess"] {
		t.Fatalf("unexpected enabled set: %v", enabled)
	}

	if len(EnabledPlugins(nil)) != 0 {
		t.Fatalf("expected empty set for nil config")
	}
}
