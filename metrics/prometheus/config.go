package prometheus

// Config configures the metrics HTTP server. There is no config-registry
// collaborator in this module, so callers build a Config directly,
// typically from the YAML file loaded by cmd/aclcli.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns a Config with the metrics server disabled.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Host:    "127.0.0.1",
		Port:    9100,
		Path:    "/metrics",
	}
}
