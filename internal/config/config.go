// Package config provides application configuration through environment variables.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// CacheTTL is how long resolved secrets stay in the encrypted cache.
	CacheTTL time.Duration
	// CacheEncryptionKey is the base64 or hex encoded 32-byte AEAD key for the
	// cache. A malformed key degrades the cache to unencrypted operation.
	CacheEncryptionKey string
	// CacheAlgorithm selects the cache AEAD ("aes-gcm" or "chacha20-poly1305").
	CacheAlgorithm string

	// DotenvPath is the path of the dotenv file backing the dotenv provider.
	// Empty disables the provider.
	DotenvPath string
	// EnvPrefix optionally namespaces keys read by the environment provider
	// (e.g. "TRUSTCORE_").
	EnvPrefix string
	// EnvAliases is a comma-separated list of key=VARIABLE overrides for the
	// environment provider (e.g. "API_KEY=LEGACY_API_KEY").
	EnvAliases string

	// KeeperURI is the gocloud.dev keeper URI backing the keeper provider
	// (e.g. "base64key://", "hashivault://keyname"). Empty disables it.
	KeeperURI string
	// KeeperCiphertextsPath points at a dotenv-format file mapping secret keys
	// to base64-encoded wrapped values unwrapped through the keeper.
	KeeperCiphertextsPath string

	// RateLimitEnabled indicates whether rate limiting for API endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per caller.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for API rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Resolver cache
		CacheTTL:           env.GetDuration("CACHE_TTL_SECONDS", 300, time.Second),
		CacheEncryptionKey: env.GetString("CACHE_ENCRYPTION_KEY", ""),
		CacheAlgorithm:     env.GetString("CACHE_ALGORITHM", "aes-gcm"),

		// Secret providers
		DotenvPath:            env.GetString("DOTENV_PATH", ""),
		EnvPrefix:             env.GetString("ENV_PREFIX", ""),
		EnvAliases:            env.GetString("ENV_ALIASES", ""),
		KeeperURI:             env.GetString("KEEPER_URI", ""),
		KeeperCiphertextsPath: env.GetString("KEEPER_CIPHERTEXTS_PATH", ""),

		// Rate Limiting (IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "trustcore"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// DecodedEncryptionKey decodes CacheEncryptionKey, accepting hex or base64
// (standard encoding). Hex is tried first: a hex-encoded 32-byte key is also
// valid base64 but would decode to the wrong bytes. Returns nil when the
// value is empty or malformed; the cache treats a nil key as a degraded-mode
// signal rather than an error.
func (c *Config) DecodedEncryptionKey() []byte {
	if c.CacheEncryptionKey == "" {
		return nil
	}

	if key, err := hex.DecodeString(c.CacheEncryptionKey); err == nil {
		return key
	}

	if key, err := base64.StdEncoding.DecodeString(c.CacheEncryptionKey); err == nil {
		return key
	}

	return nil
}

// ParsedEnvAliases parses EnvAliases into a key -> variable name map.
// Malformed pairs are skipped. Returns nil when no aliases are configured.
func (c *Config) ParsedEnvAliases() map[string]string {
	if c.EnvAliases == "" {
		return nil
	}

	aliases := make(map[string]string)
	for _, pair := range strings.Split(c.EnvAliases, ",") {
		key, variable, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" || variable == "" {
			continue
		}
		aliases[key] = variable
	}

	if len(aliases) == 0 {
		return nil
	}
	return aliases
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
