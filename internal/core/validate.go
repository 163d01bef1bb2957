package core

import (
	"fmt"
	"regexp"
)

var pluginIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]+$`)

// ValidatePlugins enforces basic plugin contract invariants at startup.
func ValidatePlugins(plugins []Plugin) error {
	seen := make(map[string]bool)
	for _, plugin := range plugins {
		id := plugin.ID()
		manifest := plugin.Manifest()
		if id == "" {
			return fmt.Errorf("plugin id is empty")
		}
		if !pluginIDPattern.MatchString(id) {
			return fmt.Errorf("plugin id %q does not match %s", id, pluginIDPattern.String())
		}
		if manifest.PluginID != id {
			return fmt.Errorf("plugin id mismatch: id=%q manifest=%q", id, manifest.PluginID)
		}
		if seen[id] {
			return fmt.Errorf("duplicate plugin id: %s", id)
		}
		seen[id] = true
	}
	return nil
}

// FilterPlugins keeps the compiled plugins that are enabled by config.
// allowAll bypasses the filter for development builds.
func FilterPlugins(compiled []Plugin, enabled map[string]bool, allowAll bool) []Plugin {
	if allowAll {
		return compiled
	}
	out := make([]Plugin, 0, len(compiled))
	for _, plugin := range compiled {
		if enabled[plugin.ID()] {
			out = append(out, plugin)
		}
	}
	return out
}

// ValidateEnabledPlugins rejects config that enables a plugin this build
// does not carry.
func ValidateEnabledPlugins(compiled []Plugin, enabled map[string]bool, allowAll bool) error {
	if allowAll {
		return nil
	}
	available := make(map[string]bool, len(compiled))
	for _, plugin := range compiled {
		available[plugin.ID()] = true
	}
	for id := range enabled {
		if !available[id] {
			return fmt.Errorf("plugin %q enabled in config but not compiled in", id)
		}
	}
	return nil
}
