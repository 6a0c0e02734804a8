// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	accessHTTP "github.com/empirehq/trustcore/internal/access/http"
	"github.com/empirehq/trustcore/internal/secrets/resolver"
)

// RouterConfig carries the knobs for building the main API router.
type RouterConfig struct {
	AccessHandler *accessHTTP.AccessHandler

	// Rate limiting for the /v1 API group.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// CORS for browser-based callers. Disabled by default.
	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server represents the HTTP server for the trust API.
type Server struct {
	server   *http.Server
	router   *gin.Engine
	resolver *resolver.UnifiedResolver
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. The resolver backs the readiness check
// and the cache administration endpoints; it may be nil in tests.
func NewServer(
	secretResolver *resolver.UnifiedResolver,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		resolver: secretResolver,
		logger:   logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with middleware and all API routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	if cfg.AccessHandler != nil {
		v1.POST("/access/check", cfg.AccessHandler.CheckHandler)
		v1.POST("/escalations/validate", cfg.AccessHandler.ValidateEscalationHandler)
	}

	// Cache administration. Stats never contain secret values, but the
	// endpoints are still restricted to trusted operators.
	cache := v1.Group("/cache")
	cache.Use(accessHTTP.ActorMiddleware(s.logger))
	cache.GET("/stats",
		accessHTTP.RequireRole(accessDomain.GuardSpec{
			Required:    accessDomain.RoleOperator,
			AuditAction: "cache:stats",
			Resource:    "cache",
		}, s.logger),
		s.cacheStatsHandler,
	)
	cache.POST("/clear",
		accessHTTP.RequireRole(accessDomain.GuardSpec{
			Required:    accessDomain.RoleAdmin,
			AuditAction: "cache:clear",
			Resource:    "cache",
		}, s.logger),
		accessHTTP.RequirePermission(
			accessDomain.Permission{Resource: "cache", Action: "clear"},
			s.logger,
		),
		s.cacheClearHandler,
	)

	s.router = router
}

// Handler returns the configured router. SetupRouter must be called first.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can answer resolutions.
// Not ready until a resolver with at least one provider is wired.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	ready := true
	if s.resolver == nil || len(s.resolver.Providers()) == 0 {
		components["resolver"] = "error"
		ready = false
	} else {
		components["resolver"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
