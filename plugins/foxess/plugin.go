package foxess

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"

	gwconfig "github.com/joshp123/gridgate/internal/config"
	"github.com/joshp123/gridgate/internal/core"
	"github.com/joshp123/gridgate/internal/fault"
	"github.com/prometheus/client_golang/prometheus"
)

//go:embed AGENTS.md
var agentsMD string

//go:embed dashboard.json
var dashboardJSON []byte

// Plugin implements the GridGate plugin contract.
type Plugin struct {
	client        *Client
	health        core.HealthStatus
	healthMessage string
}

// NewPlugin constructs a FoxESS plugin from config.
func NewPlugin(cfg *gwconfig.FoxessConfig) (Plugin, bool) {
	if cfg == nil {
		return Plugin{}, false
	}

	runtimeCfg, err := ConfigFromGateway(cfg)
	if err != nil {
		return Plugin{health: core.HealthError, healthMessage: err.Error()}, true
	}

	client, err := NewClient(runtimeCfg)
	if err != nil {
		return Plugin{health: core.HealthError, healthMessage: err.Error()}, true
	}

	return Plugin{client: client, health: core.HealthHealthy}, true
}

func (p Plugin) ID() string {
	return "foxess"
}

func (p Plugin) Manifest() core.Manifest {
	return core.Manifest{
		PluginID:    "foxess",
		DisplayName: "FoxESS",
		Version:     "0.1.0",
		Endpoints:   []string{statusEndpoint},
	}
}

func (p Plugin) AgentsMD() string {
	return agentsMD
}

func (p Plugin) Dashboards() []core.Dashboard {
	return []core.Dashboard{{Name: "foxess-overview", JSON: dashboardJSON}}
}

func (p Plugin) Collectors() []prometheus.Collector {
	if p.client == nil {
		return nil
	}
	return []prometheus.Collector{NewMetricsCollector(p.client)}
}

func (p Plugin) Health() core.HealthStatus {
	return p.health
}

func (p Plugin) HealthMessage() string {
	return p.healthMessage
}

// SnapshotJSON satisfies core.SnapshotProvider for the MQTT republisher.
func (p Plugin) SnapshotJSON(ctx context.Context) ([]byte, error) {
	if p.client == nil {
		return nil, fault.New(vendor, "config", fault.ConfigurationMissing, errors.New("client not configured"))
	}
	snapshot, err := p.client.Realtime(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot)
}
