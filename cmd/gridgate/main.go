package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joshp123/gridgate/internal/config"
	"github.com/joshp123/gridgate/internal/core"
	"github.com/joshp123/gridgate/internal/plugins"
	"github.com/joshp123/gridgate/internal/publish"
	"github.com/joshp123/gridgate/internal/server"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := envOrDefault("GRIDGATE_CONFIG", config.DefaultPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	enabled := config.EnabledPlugins(cfg)
	compiled := plugins.Compiled(cfg)
	if err := core.ValidateEnabledPlugins(compiled, enabled, false); err != nil {
		log.Fatalf("enabled plugins: %v", err)
	}
	active := core.FilterPlugins(compiled, enabled, false)
	if err := core.ValidatePlugins(active); err != nil {
		log.Fatalf("validate plugins: %v", err)
	}

	metricsRegistry := core.MetricsRegistry(active)
	metricsRegistry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "gridgate_build_info",
		Help: "Build information",
	}, func() float64 { return 1 }))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HealthHandler)
	mux.Handle("/metrics", server.MetricsHandler(metricsRegistry))
	mux.Handle("/dashboards/", server.DashboardsHandler(core.DashboardsMap(active)))
	core.NewRegistryService(active).RegisterHTTP(mux)
	for _, plugin := range active {
		plugin.RegisterHTTP(mux)
	}

	if cfg.DashboardDir != "" {
		if err := core.WriteDashboards(cfg.DashboardDir, active); err != nil {
			log.Printf("write dashboards: %v", err)
		}
	}

	if cfg.MQTT != nil {
		publisher, err := publish.New(*cfg.MQTT, active)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer publisher.Close()
		go publisher.Run(context.Background())
	}

	httpServer := server.NewHTTPServer(cfg.HTTPAddr, server.CORS(mux))
	log.Printf("gridgate listening on %s", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("http serve: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
