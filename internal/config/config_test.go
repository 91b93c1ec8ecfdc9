package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.RequestTimeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50.0, cfg.Shipping.FreeShippingThreshold)
	assert.Equal(t, 5.0, cfg.Shipping.ShippingFee)
	assert.Equal(t, 0.08, cfg.Shipping.TaxRate)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_API_URL", "https://api.example.com")
	t.Setenv("UPSTREAM_REQUEST_TIMEOUT", "5s")
	t.Setenv("SHIPPING_FREE_THRESHOLD", "75")
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Upstream.RequestTimeout)
	assert.Equal(t, 75.0, cfg.Shipping.FreeShippingThreshold)
	assert.Equal(t, 0.1, cfg.Shipping.TaxRate)
	assert.True(t, cfg.IsProduction())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing upstream url", func(c *Config) { c.Upstream.BaseURL = "" }},
		{"non-http upstream url", func(c *Config) { c.Upstream.BaseURL = "ftp://example.com" }},
		{"zero request timeout", func(c *Config) { c.Upstream.RequestTimeout = 0 }},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }},
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"tax rate above one", func(c *Config) { c.Shipping.TaxRate = 1.5 }},
		{"negative shipping fee", func(c *Config) { c.Shipping.ShippingFee = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
