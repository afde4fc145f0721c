package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OutboundConfig describes one entry under outbounds: in the YAML config.
// Type selects which outbound.Outbound constructor handles the rest of
// the fields; unused fields for a given type are ignored.
type OutboundConfig struct {
	Type       string `yaml:"type"`
	Server     string `yaml:"server,omitempty"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	ProxyAddr  string `yaml:"proxy_addr,omitempty"`
	ServerName string `yaml:"server_name,omitempty"`
}

// MetricsConfig mirrors prometheus.Config in YAML form.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Config is the aclcli top-level YAML document.
type Config struct {
	CacheCapacity int                       `yaml:"cache_capacity"`
	GeoIPPath     string                    `yaml:"geoip_path"`
	GeoSitePath   string                    `yaml:"geosite_path"`
	Fallback      string                    `yaml:"fallback"`
	Outbounds     map[string]OutboundConfig `yaml:"outbounds"`
	Metrics       MetricsConfig             `yaml:"metrics"`
}

// DefaultConfig is used when no -config flag is given: direct and reject
// outbounds and no fallback, suitable for trying a rule file against
// pre-resolved hosts without standing up any real proxy.
func DefaultConfig() Config {
	return Config{
		CacheCapacity: 1024,
		Outbounds: map[string]OutboundConfig{
			"direct": {Type: "direct"},
			"reject": {Type: "reject"},
		},
	}
}

func loadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CacheCapacity < 1 {
		cfg.CacheCapacity = 1024
	}
	return cfg, nil
}
