package core

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// HealthStatus represents plugin health states for registry reporting.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "HEALTHY"
	HealthDegraded HealthStatus = "DEGRADED"
	HealthError    HealthStatus = "ERROR"
)

// Dashboard is a Grafana dashboard asset embedded by the plugin.
type Dashboard struct {
	Name string
	JSON []byte
}

// Manifest describes a plugin for discovery and registry metadata.
type Manifest struct {
	PluginID    string
	DisplayName string
	Version     string
	Endpoints   []string
}

// Plugin is the compile-time contract for all GridGate plugins.
type Plugin interface {
	ID() string
	Manifest() Manifest
	AgentsMD() string
	Dashboards() []Dashboard
	RegisterHTTP(*http.ServeMux)
	Collectors() []prometheus.Collector
	Health() HealthStatus
	HealthMessage() string
}

// SnapshotProvider is implemented by plugins that can produce a
// point-in-time telemetry snapshot for republication.
type SnapshotProvider interface {
	SnapshotJSON(ctx context.Context) ([]byte, error)
}
