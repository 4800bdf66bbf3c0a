package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// MetricsPath is where Prometheus metrics are exposed. Empty disables the endpoint.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// PublicPaths lists the path prefixes reachable without the API key.
func (c Config) PublicPaths() []string {
	paths := []string{"/swagger"}
	if c.MetricsPath != "" {
		paths = append(paths, c.MetricsPath)
	}
	return paths
}
