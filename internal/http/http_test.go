// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessHTTP "github.com/empirehq/trustcore/internal/access/http"
	"github.com/empirehq/trustcore/internal/metrics"
	"github.com/empirehq/trustcore/internal/secrets/cache"
	"github.com/empirehq/trustcore/internal/secrets/provider"
	"github.com/empirehq/trustcore/internal/secrets/resolver"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestResolver builds a resolver backed by a static provider.
func createTestResolver(t *testing.T) *resolver.UnifiedResolver {
	t.Helper()

	return resolver.New(resolver.Config{
		Providers: []provider.Provider{
			provider.NewStatic("static", map[string]string{"API_KEY": "value"}),
		},
		EncryptionKey: make([]byte, 32),
		Algorithm:     cache.AESGCM,
		Logger:        testLogger(),
	})
}

// createTestServer creates a test server with a discarding logger.
func createTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(createTestResolver(t), "localhost", 8080, testLogger())
}

// TestHealthHandler tests the health check endpoint handler.
func TestHealthHandler(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

// TestReadinessHandler_NotReady_NilResolver tests readiness without a resolver.
func TestReadinessHandler_NotReady_NilResolver(t *testing.T) {
	server := NewServer(nil, "localhost", 8080, testLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	server.readinessHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "not_ready", response["status"])

	components, ok := response["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", components["resolver"])
}

// TestReadinessHandler_Ready tests readiness with a configured resolver.
func TestReadinessHandler_Ready(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	server.readinessHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ready", response["status"])
}

// TestCustomLoggerMiddleware tests the custom logging middleware.
func TestCustomLoggerMiddleware(t *testing.T) {
	logger := testLogger()

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

// TestRecoveryMiddleware tests Gin's built-in recovery middleware.
func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(testLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)

	// Should not panic - Recovery middleware catches it
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestSetupRouter_Routes exercises the full router with the guarded cache
// administration endpoints.
func TestSetupRouter_Routes(t *testing.T) {
	server := createTestServer(t)
	server.SetupRouter(RouterConfig{
		AccessHandler: accessHTTP.NewAccessHandler(metrics.NewNoOpAccessMetrics(), testLogger()),
	})

	t.Run("health endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route returns 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no metrics endpoint on main server", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cache stats requires actor role", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil)
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("cache stats forbidden below operator", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil)
		req.Header.Set(accessHTTP.ActorRoleHeader, "analyst")
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cache stats allowed for operator", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil)
		req.Header.Set(accessHTTP.ActorRoleHeader, "operator")
		server.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response, "encrypted")
	})

	t.Run("cache clear requires admin role and grant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/cache/clear", nil)
		req.Header.Set(accessHTTP.ActorRoleHeader, "admin")
		server.router.ServeHTTP(w, req)

		// Role suffices but the cache:clear grant is missing.
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cache clear allowed with role and grant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/cache/clear", nil)
		req.Header.Set(accessHTTP.ActorRoleHeader, "admin")
		req.Header.Set(accessHTTP.ActorGrantsHeader, "cache:clear")
		server.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("access check route is wired", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/access/check", nil)
		server.router.ServeHTTP(w, req)

		// Empty body fails binding, proving the route exists.
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestRateLimitMiddleware verifies the 429 path after the burst is consumed.
func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 2, testLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

// TestRateLimitMiddleware_PerCaller verifies limiters are independent per IP.
func TestRateLimitMiddleware_PerCaller(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 1, testLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	firstReq := httptest.NewRequest(http.MethodGet, "/test", nil)
	firstReq.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(first, firstReq)
	require.Equal(t, http.StatusOK, first.Code)

	// Same caller is now limited.
	limited := httptest.NewRecorder()
	limitedReq := httptest.NewRequest(http.MethodGet, "/test", nil)
	limitedReq.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(limited, limitedReq)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)

	// A different caller still has its own bucket.
	other := httptest.NewRecorder()
	otherReq := httptest.NewRequest(http.MethodGet, "/test", nil)
	otherReq.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(other, otherReq)
	assert.Equal(t, http.StatusOK, other.Code)
}

// TestServer_ShutdownGracefully tests graceful server shutdown.
func TestServer_ShutdownGracefully(t *testing.T) {
	server := createTestServer(t)
	server.SetupRouter(RouterConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	assert.NoError(t, err)

	select {
	case err := <-errChan:
		t.Fatalf("server startup failed: %v", err)
	default:
	}
}

// TestRequestIDMiddleware_HeaderPresent verifies X-Request-Id header is present in response.
func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID, "X-Request-Id header should be present")

	parsedUUID, err := uuid.Parse(requestID)
	require.NoError(t, err, "X-Request-Id should be a valid UUID")
	assert.NotEqual(t, uuid.Nil, parsedUUID, "X-Request-Id should not be nil UUID")
}

// TestMetricsServer_Endpoints tests the metrics server endpoints.
func TestMetricsServer_Endpoints(t *testing.T) {
	logger := testLogger()

	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "healthy")
}
