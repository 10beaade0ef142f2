package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/memoirapp/mediakit/internal/flagx"
	"github.com/memoirapp/mediakit/internal/timex"
)

// JsonConfig is the DTO for the JSON config file. Interval fields use
// timex.Duration so both "30s" strings and integer nanoseconds parse.
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	APIPathPrefix    string         `json:"api_path_prefix"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	StorageEndpoint  string         `json:"storage_endpoint"`
	StoragePathStyle bool           `json:"storage_path_style"`
	DataDir          string         `json:"data_dir"`
	SignedURLExpiry  timex.Duration `json:"signed_url_expiry"`
	PageSize         int            `json:"page_size"`
	DefaultScope     string         `json:"default_scope"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// An unreadable or invalid file panics: a config file that exists but cannot
// be used is a startup error, not something to silently skip.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.APIBaseURL != "" {
		config.APIBaseURL = c.APIBaseURL
	}
	if c.APIPathPrefix != "" {
		config.APIPathPrefix = c.APIPathPrefix
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
	if c.StorageEndpoint != "" {
		config.StorageEndpoint = c.StorageEndpoint
	}
	if c.StoragePathStyle {
		config.StoragePathStyle = true
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.SignedURLExpiry.Duration != 0 {
		config.SignedURLExpiry = time.Duration(c.SignedURLExpiry.Duration)
	}
	if c.PageSize != 0 {
		config.PageSize = c.PageSize
	}
	if c.DefaultScope != "" {
		config.DefaultScope = c.DefaultScope
	}
}
