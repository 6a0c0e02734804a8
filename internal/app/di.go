// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/empirehq/trustcore/internal/access/http"
	"github.com/empirehq/trustcore/internal/config"
	trusthttp "github.com/empirehq/trustcore/internal/http"
	"github.com/empirehq/trustcore/internal/metrics"
	"github.com/empirehq/trustcore/internal/secrets/cache"
	"github.com/empirehq/trustcore/internal/secrets/provider"
	"github.com/empirehq/trustcore/internal/secrets/resolver"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider

	// Domain components
	resolver      *resolver.UnifiedResolver
	accessHandler *http.AccessHandler

	// Servers
	httpServer    *trusthttp.Server
	metricsServer *trusthttp.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	resolverInit        sync.Once
	accessHandlerInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		mp, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = mp
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// Resolver returns the unified secret resolver with the configured provider
// chain, encrypted cache, and metrics sink.
func (c *Container) Resolver() (*resolver.UnifiedResolver, error) {
	c.resolverInit.Do(func() {
		r, err := c.initResolver()
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}
		c.resolver = r
	})
	if storedErr, exists := c.initErrors["resolver"]; exists {
		return nil, storedErr
	}
	return c.resolver, nil
}

// AccessHandler returns the HTTP handler for authorization decisions.
func (c *Container) AccessHandler() (*http.AccessHandler, error) {
	c.accessHandlerInit.Do(func() {
		handler, err := c.initAccessHandler()
		if err != nil {
			c.initErrors["accessHandler"] = err
			return
		}
		c.accessHandler = handler
	})
	if storedErr, exists := c.initErrors["accessHandler"]; exists {
		return nil, storedErr
	}
	return c.accessHandler, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*trusthttp.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*trusthttp.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		mp, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if mp == nil {
			return
		}
		c.metricsServer = trusthttp.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			mp,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP servers if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initProviders builds the ordered provider chain from configuration:
// prefixed environment, plain environment, dotenv, keeper. Providers that
// are not configured are skipped.
func (c *Container) initProviders(ctx context.Context) ([]provider.Provider, error) {
	var providers []provider.Provider

	if c.config.EnvPrefix != "" {
		providers = append(providers, provider.NewPrefixedEnv(c.config.EnvPrefix))
	}
	providers = append(providers, provider.NewEnv().WithAliases(c.config.ParsedEnvAliases()))

	if c.config.DotenvPath != "" {
		providers = append(providers, provider.NewDotenv(c.config.DotenvPath))
	}

	if c.config.KeeperURI != "" {
		keeper, err := provider.OpenKeeper(ctx, c.config.KeeperURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open keeper %q: %w", c.config.KeeperURI, err)
		}

		var ciphertexts map[string]string
		if c.config.KeeperCiphertextsPath != "" {
			ciphertexts, err = godotenv.Read(c.config.KeeperCiphertextsPath)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to read keeper ciphertexts from %q: %w",
					c.config.KeeperCiphertextsPath, err,
				)
			}
		}
		providers = append(providers, provider.NewKeeper(keeper, ciphertexts))
	}

	return providers, nil
}

// initResolver creates the unified resolver with all its dependencies.
func (c *Container) initResolver() (*resolver.UnifiedResolver, error) {
	logger := c.Logger()

	providers, err := c.initProviders(context.Background())
	if err != nil {
		return nil, err
	}

	sink := resolver.NewNoOpMetrics()
	mp, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for resolver: %w", err)
	}
	if mp != nil {
		sink, err = metrics.NewResolverSink(mp.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create resolver metrics sink: %w", err)
		}
	}

	return resolver.New(resolver.Config{
		Providers:     providers,
		CacheTTL:      c.config.CacheTTL,
		EncryptionKey: c.config.DecodedEncryptionKey(),
		Algorithm:     cache.Algorithm(c.config.CacheAlgorithm),
		Metrics:       sink,
		Logger:        logger,
	}), nil
}

// initAccessHandler creates the access handler with its metrics dependency.
func (c *Container) initAccessHandler() (*http.AccessHandler, error) {
	accessMetrics := metrics.NewNoOpAccessMetrics()

	mp, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for access handler: %w", err)
	}
	if mp != nil {
		accessMetrics, err = metrics.NewAccessMetrics(mp.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create access metrics: %w", err)
		}
	}

	return http.NewAccessHandler(accessMetrics, c.Logger()), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*trusthttp.Server, error) {
	logger := c.Logger()

	secretResolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for http server: %w", err)
	}

	accessHandler, err := c.AccessHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get access handler for http server: %w", err)
	}

	server := trusthttp.NewServer(
		secretResolver,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
	)
	server.SetupRouter(trusthttp.RouterConfig{
		AccessHandler:    accessHandler,
		RateLimitEnabled: c.config.RateLimitEnabled,
		RateLimitRPS:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:   c.config.RateLimitBurst,
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	})

	return server, nil
}
