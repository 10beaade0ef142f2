// Package config handles configuration for the Memoir client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Memoir client.
//
// Fields:
//   - APIBaseURL / APIPathPrefix: where the backend lives.
//   - RequestTimeout: per-request bound on backend calls.
//   - StorageEndpoint: object-storage endpoint override for MinIO/OSS-style
//     deployments; empty uses the SDK default resolution.
//   - StoragePathStyle: use path-style bucket addressing (MinIO needs it).
//   - DataDir: directory for the local sqlite state, relative to the cwd.
//   - SignedURLExpiry: lifetime of signed view URLs.
//   - PageSize: feed page size.
//   - DefaultScope: storage scope selected at startup ("personal"/"couple").
type Config struct {
	APIBaseURL       string
	APIPathPrefix    string
	RequestTimeout   time.Duration
	StorageEndpoint  string
	StoragePathStyle bool
	DataDir          string
	SignedURLExpiry  time.Duration
	PageSize         int
	DefaultScope     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.APIPathPrefix = "/api"
	c.RequestTimeout = 30 * time.Second
	c.StorageEndpoint = ""
	c.StoragePathStyle = false
	c.DataDir = "memoir-data"
	c.SignedURLExpiry = time.Hour
	c.PageSize = 20
	c.DefaultScope = "couple"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
