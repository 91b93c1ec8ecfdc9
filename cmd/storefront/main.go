// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/session"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/database/redis"
	httpserver "github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Upstream API client
	upstream := backend.NewClient(cfg, appLogger)

	// A dead upstream at boot is degraded, not fatal: cached state still
	// serves and the upstream may come up later.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := upstream.Health(probeCtx); err != nil {
		appLogger.WithField("error", err.Error()).Warn("Upstream API not reachable at startup")
	} else {
		appLogger.Info("✅ Upstream API reachable")
	}
	probeCancel()

	// Shared shipping config provider and session manager
	shipping := pricing.NewProvider(upstream, redisClient.GetClient(), cfg, appLogger)
	sessions := session.NewManager(session.Deps{
		Client:      upstream,
		RedisClient: redisClient.GetClient(),
		Shipping:    shipping,
		Config:      cfg,
		Logger:      appLogger,
	}, cfg.Session.TTL, cfg.Session.CleanupInterval)
	defer sessions.Close()

	// Create and start HTTP server
	server := httpserver.NewServer(cfg, appLogger, upstream, redisClient.GetClient(), sessions, shipping)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithField("error", err.Error()).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("✅ Server shutdown completed")
}
