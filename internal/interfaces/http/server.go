// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/catalog"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/session"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/routes"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/pdf"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	logger      *logrus.Logger
	upstream    *backend.Client
	redisClient *goredis.Client
	sessions    *session.Manager
	shipping    *pricing.Provider
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, log *logrus.Logger, upstream *backend.Client, redisClient *goredis.Client, sessions *session.Manager, shipping *pricing.Provider) *Server {
	return &Server{
		config:      cfg,
		logger:      log,
		upstream:    upstream,
		redisClient: redisClient,
		sessions:    sessions,
		shipping:    shipping,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()

	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			return fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"upstream": s.config.Upstream.BaseURL,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.RequestID())

	s.gin.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Security.CORSAllowedOrigins,
		AllowMethods:     s.config.Security.CORSAllowedMethods,
		AllowHeaders:     s.config.Security.CORSAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.Timeout(s.config.Server.WriteTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	deps := routes.Deps{
		Sessions: s.sessions,
		Shipping: s.shipping,
		Catalog:  catalog.NewService(s.upstream, s.logger),
		PDF:      pdf.NewService(s.config),
		Logger:   s.logger,
	}

	api := s.gin.Group("/api")
	api.Use(middleware.AttachSession(s.sessions))
	{
		routes.SetupAuthRoutes(api, deps)
		routes.SetupCatalogRoutes(api, deps)
		routes.SetupCartRoutes(api, deps)
		routes.SetupCheckoutRoutes(api, deps)
		routes.SetupOrderRoutes(api, deps)
		routes.SetupWishlistRoutes(api, deps)
	}
}

// healthCheck reports process liveness
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"name":        s.config.App.Name,
			"version":     s.config.App.Version,
			"environment": s.config.App.Environment,
		},
	})
}

// readinessCheck reports whether the dependencies are reachable. A dead
// upstream is degraded, not fatal: cached snapshots still serve.
func (s *Server) readinessCheck(c *gin.Context) {
	if err := s.redisClient.Ping(c.Request.Context()).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "Redis unavailable",
		})
		return
	}

	upstreamOK := s.upstream.Health(c.Request.Context()) == nil

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"redis":    "ok",
			"upstream": map[bool]string{true: "ok", false: "degraded"}[upstreamOK],
			"sessions": s.sessions.Len(),
		},
	})
}
