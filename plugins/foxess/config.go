package foxess

import (
	"fmt"
	"strings"

	gwconfig "github.com/joshp123/gridgate/internal/config"
)

const (
	defaultBaseURL = "https://www.foxesscloud.com"
)

// Config defines runtime configuration for the FoxESS client.
type Config struct {
	Token    string
	DeviceSN string
	BaseURL  string

	// ReportsWatts marks an upstream variant that reports power in watts
	// instead of kilowatts. It is deliberate per-integration config, never
	// inferred from the magnitude of readings.
	ReportsWatts bool
}

func ConfigFromGateway(cfg *gwconfig.FoxessConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("foxess config is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return Config{}, fmt.Errorf("foxess token is required")
	}
	if strings.TrimSpace(cfg.DeviceSN) == "" {
		return Config{}, fmt.Errorf("foxess device_sn is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return Config{
		Token:        strings.TrimSpace(cfg.Token),
		DeviceSN:     strings.TrimSpace(cfg.DeviceSN),
		BaseURL:      baseURL,
		ReportsWatts: cfg.ReportsWatts,
	}, nil
}
