// Package resolver implements the unified secret resolver: cache first, then
// providers in priority order, with hashed-key telemetry and a typed miss.
package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/empirehq/trustcore/internal/errors"
	"github.com/empirehq/trustcore/internal/secrets/cache"
	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
	"github.com/empirehq/trustcore/internal/secrets/provider"
)

// DefaultCacheTTL bounds cache entries when no TTL is configured.
const DefaultCacheTTL = 5 * time.Minute

// Config holds the recognized resolver construction options.
type Config struct {
	// Providers is the ordered provider chain; earlier entries win.
	Providers []provider.Provider

	// CacheTTL is the default cache entry lifetime. Zero means DefaultCacheTTL.
	CacheTTL time.Duration

	// EncryptionKey is the 32-byte symmetric key sealing cache entries.
	// A malformed key degrades the cache instead of failing resolution.
	EncryptionKey []byte

	// Algorithm selects the cache cipher. Empty means AES-GCM.
	Algorithm cache.Algorithm

	// Metrics receives hashed-key telemetry. Nil means no-op.
	Metrics MetricsSink

	// Logger is used for warnings and debug traces. Nil means slog.Default.
	Logger *slog.Logger
}

// UnifiedResolver resolves secrets by trying the encrypted cache, then each
// registered provider in priority order. A single resolution is a sequential
// state machine with no parallel fan-out: later providers are not invoked
// once an earlier one has answered. Concurrent lookups for the same key are
// de-duplicated with single-flight so a cold key walks the chain once.
type UnifiedResolver struct {
	mu        sync.RWMutex
	providers []provider.Provider

	cache      *cache.EncryptedCache
	defaultTTL time.Duration
	metrics    MetricsSink
	logger     *slog.Logger
	group      singleflight.Group
}

// New creates a resolver from the given configuration.
func New(cfg Config) *UnifiedResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewNoOpMetrics()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = cache.AESGCM
	}

	providers := make([]provider.Provider, len(cfg.Providers))
	copy(providers, cfg.Providers)

	return &UnifiedResolver{
		providers:  providers,
		cache:      cache.New(cfg.EncryptionKey, alg, logger),
		defaultTTL: ttl,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetSecret resolves the key using the default cache TTL.
func (r *UnifiedResolver) GetSecret(ctx context.Context, key string) (*secretsDomain.Secret, error) {
	return r.GetSecretWithTTL(ctx, key, r.defaultTTL)
}

// GetSecretWithTTL resolves the key, caching a provider answer with the given
// TTL. On a cache hit the secret's source is SourceCache and no provider is
// invoked. If every provider returns no opinion or fails, it returns a
// *secretsDomain.SecretNotFoundError carrying the key.
func (r *UnifiedResolver) GetSecretWithTTL(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (*secretsDomain.Secret, error) {
	hashedKey := secretsDomain.HashKey(key)

	if value, _, ok := r.cache.Get(key); ok {
		r.metrics.OnCacheHit(ctx, hashedKey)
		return &secretsDomain.Secret{
			Key:       key,
			Value:     value,
			Source:    secretsDomain.SourceCache,
			FetchedAt: time.Now().UTC(),
		}, nil
	}

	r.metrics.OnCacheMiss(ctx, hashedKey)

	// Single-flight collapses concurrent walks for the same cold key so the
	// provider chain is consulted once per key at a time.
	result, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, key, hashedKey, ttl)
	})
	if err != nil {
		return nil, err
	}

	return result.(*secretsDomain.Secret), nil
}

// resolve walks the provider chain in priority order starting at depth 1.
// The first non-nil answer short-circuits the walk and is written to the
// cache; transient provider failures are swallowed and the walk continues.
func (r *UnifiedResolver) resolve(
	ctx context.Context,
	key, hashedKey string,
	ttl time.Duration,
) (*secretsDomain.Secret, error) {
	r.mu.RLock()
	providers := make([]provider.Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	start := time.Now()

	for i, p := range providers {
		depth := i + 1

		secret, err := p.Get(ctx, key)
		if err != nil {
			r.metrics.OnProviderError(ctx, hashedKey, depth)
			r.logger.Debug("secret provider failed, trying next",
				slog.String("hashed_key", hashedKey),
				slog.String("provider", p.Name()),
				slog.Int("depth", depth),
				slog.Any("error", err),
			)
			continue
		}
		if secret == nil {
			continue
		}

		if err := r.cache.Set(key, secret.Value, secret.Source, ttl); err != nil {
			r.logger.Warn("failed to cache resolved secret",
				slog.String("hashed_key", hashedKey),
				slog.Any("error", err),
			)
		}

		r.metrics.OnResolve(ctx, hashedKey, secret.Source, depth, time.Since(start))
		return secret, nil
	}

	r.metrics.OnMiss(ctx, hashedKey)
	return nil, &secretsDomain.SecretNotFoundError{Key: key}
}

// GetSecretWithFallback resolves the key like GetSecret but recovers a miss
// by returning the caller-supplied fallback value. Transient failures wrapped
// into the miss are recovered the same way; any other error propagates.
func (r *UnifiedResolver) GetSecretWithFallback(
	ctx context.Context,
	key, fallbackValue string,
) (*secretsDomain.Secret, error) {
	secret, err := r.GetSecret(ctx, key)
	if err != nil {
		var notFound *secretsDomain.SecretNotFoundError
		if apperrors.As(err, &notFound) {
			return &secretsDomain.Secret{
				Key:       key,
				Value:     fallbackValue,
				Source:    secretsDomain.SourceFallback,
				FetchedAt: time.Now().UTC(),
			}, nil
		}
		return nil, err
	}
	return secret, nil
}

// RegisterProvider inserts a provider at the given position in the priority
// order; subsequent resolutions use the updated order. An index at or past
// the end appends; a negative index prepends.
func (r *UnifiedResolver) RegisterProvider(p provider.Provider, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 {
		index = 0
	}
	if index > len(r.providers) {
		index = len(r.providers)
	}

	r.providers = append(r.providers[:index], append([]provider.Provider{p}, r.providers[index:]...)...)
}

// Providers returns the current provider names in priority order.
func (r *UnifiedResolver) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// ClearCache removes every cached entry.
func (r *UnifiedResolver) ClearCache() {
	r.cache.Clear()
}

// CacheStats returns the cache snapshot; keys appear only as digests.
func (r *UnifiedResolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}
