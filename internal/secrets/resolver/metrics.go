package resolver

import (
	"context"
	"time"

	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// MetricsSink receives resolution telemetry. Every method takes a hashed key
// (a fixed-width one-way digest); no sink method ever receives a plaintext
// key or a secret value.
type MetricsSink interface {
	// OnResolve records a successful provider resolution. Depth is the
	// 1-based position of the answering provider in priority order.
	OnResolve(ctx context.Context, hashedKey string, source secretsDomain.Source, depth int, latency time.Duration)

	// OnMiss records an exhausted provider chain.
	OnMiss(ctx context.Context, hashedKey string)

	// OnCacheHit records a lookup served from the encrypted cache.
	OnCacheHit(ctx context.Context, hashedKey string)

	// OnCacheMiss records a lookup that fell through to the provider chain.
	OnCacheMiss(ctx context.Context, hashedKey string)

	// OnProviderError records a transient provider failure at the given
	// depth. Failures are distinct from misses: the resolver continues
	// down the chain either way, but operators need to tell them apart.
	OnProviderError(ctx context.Context, hashedKey string, depth int)
}

// NoOpMetrics is a MetricsSink that discards all telemetry.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a sink for resolvers running without metrics.
func NewNoOpMetrics() MetricsSink {
	return &NoOpMetrics{}
}

// OnResolve does nothing.
func (n *NoOpMetrics) OnResolve(
	ctx context.Context,
	hashedKey string,
	source secretsDomain.Source,
	depth int,
	latency time.Duration,
) {
	// No-op
}

// OnMiss does nothing.
func (n *NoOpMetrics) OnMiss(ctx context.Context, hashedKey string) {
	// No-op
}

// OnCacheHit does nothing.
func (n *NoOpMetrics) OnCacheHit(ctx context.Context, hashedKey string) {
	// No-op
}

// OnCacheMiss does nothing.
func (n *NoOpMetrics) OnCacheMiss(ctx context.Context, hashedKey string) {
	// No-op
}

// OnProviderError does nothing.
func (n *NoOpMetrics) OnProviderError(ctx context.Context, hashedKey string, depth int) {
	// No-op
}
