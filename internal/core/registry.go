package core

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// PluginSummary is one row of the plugin listing.
type PluginSummary struct {
	PluginID    string `json:"plugin_id"`
	DisplayName string `json:"display_name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
}

// DashboardRef points at a served dashboard asset.
type DashboardRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// PluginDescriptor is the full registry record for one plugin.
type PluginDescriptor struct {
	PluginID      string         `json:"plugin_id"`
	DisplayName   string         `json:"display_name"`
	Version       string         `json:"version"`
	Endpoints     []string       `json:"endpoints"`
	AgentsMD      string         `json:"agents_md"`
	Status        string         `json:"status"`
	HealthMessage string         `json:"health_message,omitempty"`
	Dashboards    []DashboardRef `json:"dashboards"`
}

// RegistryService provides plugin discovery to clients.
type RegistryService struct {
	plugins []Plugin
	mu      sync.RWMutex
}

func NewRegistryService(plugins []Plugin) *RegistryService {
	return &RegistryService{plugins: plugins}
}

func (r *RegistryService) ListPlugins() []PluginSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]PluginSummary, 0, len(r.plugins))
	for _, p := range r.plugins {
		manifest := p.Manifest()
		summaries = append(summaries, PluginSummary{
			PluginID:    manifest.PluginID,
			DisplayName: manifest.DisplayName,
			Version:     manifest.Version,
			Status:      string(p.Health()),
		})
	}
	return summaries
}

func (r *RegistryService) DescribePlugin(id string) (PluginDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		manifest := p.Manifest()
		if manifest.PluginID != id {
			continue
		}

		descriptor := PluginDescriptor{
			PluginID:      manifest.PluginID,
			DisplayName:   manifest.DisplayName,
			Version:       manifest.Version,
			Endpoints:     manifest.Endpoints,
			AgentsMD:      p.AgentsMD(),
			Status:        string(p.Health()),
			HealthMessage: p.HealthMessage(),
		}
		for _, d := range p.Dashboards() {
			descriptor.Dashboards = append(descriptor.Dashboards, DashboardRef{
				Name: d.Name,
				Path: "/dashboards/" + manifest.PluginID + "/" + d.Name + ".json",
			})
		}
		return descriptor, true
	}

	return PluginDescriptor{}, false
}

// RegisterHTTP exposes the registry under /api/plugins.
func (r *RegistryService) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/api/plugins", func(w http.ResponseWriter, _ *http.Request) {
		writeRegistryJSON(w, r.ListPlugins())
	})
	mux.HandleFunc("/api/plugins/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/api/plugins/")
		descriptor, ok := r.DescribePlugin(id)
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeRegistryJSON(w, descriptor)
	})
}

func writeRegistryJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
