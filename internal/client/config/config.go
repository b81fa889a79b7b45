package config

import "time"

// Config holds runtime settings for the medmod CLI.
type Config struct {
	ServerURL      string
	GRPCAddr       string
	SignedIssuer   string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
}

// LoadDefaults populates c with values matching the server's development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.GRPCAddr = "127.0.0.1:50051"
	c.SignedIssuer = "medmod"
	c.TokenTTL = 5 * time.Minute
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
