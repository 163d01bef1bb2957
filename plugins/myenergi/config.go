package myenergi

import (
	"fmt"
	"strings"

	gwconfig "github.com/joshp123/gridgate/internal/config"
)

const (
	defaultDirectorURL = "https://director.myenergi.net"
)

// Config defines runtime configuration for the myenergi client.
type Config struct {
	Serial      string
	APIKey      string
	DirectorURL string
}

func ConfigFromGateway(cfg *gwconfig.MyenergiConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("myenergi config is required")
	}
	if strings.TrimSpace(cfg.Serial) == "" {
		return Config{}, fmt.Errorf("myenergi serial is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Config{}, fmt.Errorf("myenergi api_key is required")
	}

	directorURL := strings.TrimRight(strings.TrimSpace(cfg.DirectorURL), "/")
	if directorURL == "" {
		directorURL = defaultDirectorURL
	}

	return Config{
		Serial:      strings.TrimSpace(cfg.Serial),
		APIKey:      strings.TrimSpace(cfg.APIKey),
		DirectorURL: directorURL,
	}, nil
}
