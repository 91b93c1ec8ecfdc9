// internal/domain/pricing/provider.go
package pricing

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

const shippingConfigKey = "storefront:shipping:config"

// Provider resolves the live shipping configuration. The upstream settings
// endpoint is the source of truth; the last fetched value is cached in
// Redis (last fetch wins) and the configured fallback covers outages, so
// a pricing quote can always be produced.
type Provider struct {
	client      *backend.Client
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger
}

// NewProvider creates a new shipping config provider
func NewProvider(client *backend.Client, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *Provider {
	return &Provider{
		client:      client,
		redisClient: redisClient,
		config:      cfg,
		logger:      log,
	}
}

// ShippingConfig returns the current shipping configuration: cache first,
// then upstream, then the configured fallback. Failures are logged only.
func (p *Provider) ShippingConfig(ctx context.Context) ShippingConfig {
	if cached, err := p.redisClient.Get(ctx, shippingConfigKey).Result(); err == nil {
		var cfg ShippingConfig
		if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
			return cfg
		}
	}

	var cfg ShippingConfig
	if err := p.client.Get(ctx, "/api/settings/shipping", "", &cfg); err != nil {
		p.logger.WithField("error", err.Error()).Warn("Failed to fetch shipping config, using fallback")
		return p.fallback()
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := p.redisClient.Set(ctx, shippingConfigKey, data, p.config.Shipping.CacheTTL).Err(); err != nil {
			p.logger.WithField("error", err.Error()).Warn("Failed to cache shipping config")
		}
	}

	return cfg
}

// Refresh drops the cached value so the next read hits upstream
func (p *Provider) Refresh(ctx context.Context) error {
	return p.redisClient.Del(ctx, shippingConfigKey).Err()
}

func (p *Provider) fallback() ShippingConfig {
	return ShippingConfig{
		FreeShippingThreshold: p.config.Shipping.FreeShippingThreshold,
		ShippingFee:           p.config.Shipping.ShippingFee,
		TaxRate:               p.config.Shipping.TaxRate,
	}
}
