package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPath                   = "/etc/gridgate/config.yaml"
	DefaultHTTPAddr               = "0.0.0.0:8080"
	DefaultTopicPrefix            = "gridgate"
	DefaultPublishIntervalSeconds = 30
)

// Config is the gateway runtime configuration. Plugin sections are pointers:
// a nil section means the plugin is disabled.
type Config struct {
	HTTPAddr     string          `mapstructure:"http_addr"`
	DashboardDir string          `mapstructure:"dashboard_dir"`
	Myenergi     *MyenergiConfig `mapstructure:"myenergi"`
	Foxess       *FoxessConfig   `mapstructure:"foxess"`
	MQTT         *MQTTConfig     `mapstructure:"mqtt"`
}

// MyenergiConfig holds the hub credentials. The serial doubles as the digest
// username and the API key as the digest password.
type MyenergiConfig struct {
	Serial      string `mapstructure:"serial"`
	APIKey      string `mapstructure:"api_key"`
	DirectorURL string `mapstructure:"director_url"`
}

// FoxessConfig holds the inverter cloud credentials. ReportsWatts selects
// the watt-reporting upstream variant; the default cloud reports kilowatts.
type FoxessConfig struct {
	Token        string `mapstructure:"token"`
	DeviceSN     string `mapstructure:"device_sn"`
	BaseURL      string `mapstructure:"base_url"`
	ReportsWatts bool   `mapstructure:"reports_watts"`
}

type MQTTConfig struct {
	Broker          string `mapstructure:"broker"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	TopicPrefix     string `mapstructure:"topic_prefix"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

// envKeys may arrive through GRIDGATE_* environment variables instead of the
// config file; credentials usually do.
var envKeys = []string{
	"http_addr",
	"dashboard_dir",
	"myenergi.serial",
	"myenergi.api_key",
	"myenergi.director_url",
	"foxess.token",
	"foxess.device_sn",
	"foxess.base_url",
	"mqtt.broker",
	"mqtt.username",
	"mqtt.password",
}

// Load parses the YAML config file, overlays environment variables, applies
// defaults, and validates. A missing file is tolerated when the environment
// carries the settings.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GRIDGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.MQTT != nil {
		if cfg.MQTT.TopicPrefix == "" {
			cfg.MQTT.TopicPrefix = DefaultTopicPrefix
		}
		if cfg.MQTT.IntervalSeconds == 0 {
			cfg.MQTT.IntervalSeconds = DefaultPublishIntervalSeconds
		}
	}
}

// Validate enforces required invariants beyond type decoding.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}

	if cfg.Myenergi != nil {
		if strings.TrimSpace(cfg.Myenergi.Serial) == "" {
			return fmt.Errorf("myenergi.serial is required")
		}
		if strings.TrimSpace(cfg.Myenergi.APIKey) == "" {
			return fmt.Errorf("myenergi.api_key is required")
		}
	}
	if cfg.Foxess != nil {
		if strings.TrimSpace(cfg.Foxess.Token) == "" {
			return fmt.Errorf("foxess.token is required")
		}
		if strings.TrimSpace(cfg.Foxess.DeviceSN) == "" {
			return fmt.Errorf("foxess.device_sn is required")
		}
	}
	if cfg.MQTT != nil && strings.TrimSpace(cfg.MQTT.Broker) == "" {
		return fmt.Errorf("mqtt.broker is required")
	}

	return nil
}

// EnabledPlugins maps enabled plugin IDs based on config presence.
func EnabledPlugins(cfg *Config) map[string]bool {
	enabled := make(map[string]bool)
	if cfg == nil {
		return enabled
	}
	if cfg.Myenergi != nil {
		enabled["myenergi"] = true
	}
	if cfg.Foxess != nil {
		enabled["foxess"] = true
	}
	return enabled
}
