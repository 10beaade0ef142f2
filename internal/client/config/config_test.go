package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
	assert.Equal(t, "/api", cfg.APIPathPrefix)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.SignedURLExpiry)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "couple", cfg.DefaultScope)
}

func TestParseJson_Overlay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	payload := map[string]any{
		"api_base_url":     "https://api.memoir.example",
		"storage_endpoint": "http://127.0.0.1:9000",
		"request_timeout":  "45s",
		"page_size":        50,
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, b, 0o600))

	origArgs := os.Args
	os.Args = []string{"cli", "-c", file}
	t.Cleanup(func() { os.Args = origArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://api.memoir.example", cfg.APIBaseURL)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.StorageEndpoint)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.PageSize)
	// untouched fields keep their defaults
	assert.Equal(t, "/api", cfg.APIPathPrefix)
	assert.Equal(t, "couple", cfg.DefaultScope)
}

func TestParseFlags_Overlay(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"cli", "-a", "https://flags.memoir.example", "-s", "personal", "-t", "10"}
	t.Cleanup(func() { os.Args = origArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "https://flags.memoir.example", cfg.APIBaseURL)
	assert.Equal(t, "personal", cfg.DefaultScope)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseJson_NoFlagNoOp(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"cli"}
	t.Cleanup(func() { os.Args = origArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
}
