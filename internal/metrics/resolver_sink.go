package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
	"github.com/empirehq/trustcore/internal/secrets/resolver"
)

// resolverSink implements resolver.MetricsSink on OpenTelemetry instruments.
// It only ever receives hashed key digests from the resolver, never plaintext
// keys or values.
type resolverSink struct {
	resolveCounter       metric.Int64Counter
	missCounter          metric.Int64Counter
	cacheHitCounter      metric.Int64Counter
	cacheMissCounter     metric.Int64Counter
	providerErrorCounter metric.Int64Counter
	resolveDuration      metric.Float64Histogram
}

// NewResolverSink creates a resolver.MetricsSink recording resolution
// telemetry through the given meter provider. The namespace prefixes all
// metric names.
func NewResolverSink(meterProvider metric.MeterProvider, namespace string) (resolver.MetricsSink, error) {
	meter := meterProvider.Meter(namespace)

	resolveCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_secret_resolutions_total", namespace),
		metric.WithDescription("Total number of secret resolutions answered by a provider"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolve counter: %w", err)
	}

	missCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_secret_misses_total", namespace),
		metric.WithDescription("Total number of lookups exhausting every provider"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create miss counter: %w", err)
	}

	cacheHitCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_cache_hits_total", namespace),
		metric.WithDescription("Total number of lookups served from the encrypted cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache hit counter: %w", err)
	}

	cacheMissCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_cache_misses_total", namespace),
		metric.WithDescription("Total number of lookups falling through to the provider chain"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache miss counter: %w", err)
	}

	providerErrorCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_provider_errors_total", namespace),
		metric.WithDescription("Total number of transient provider failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider error counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_resolution_duration_seconds", namespace),
		metric.WithDescription("Duration of provider-chain resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution duration histogram: %w", err)
	}

	return &resolverSink{
		resolveCounter:       resolveCounter,
		missCounter:          missCounter,
		cacheHitCounter:      cacheHitCounter,
		cacheMissCounter:     cacheMissCounter,
		providerErrorCounter: providerErrorCounter,
		resolveDuration:      resolveDuration,
	}, nil
}

// OnResolve records a successful provider resolution with its source, depth,
// and latency.
func (s *resolverSink) OnResolve(
	ctx context.Context,
	hashedKey string,
	source secretsDomain.Source,
	depth int,
	latency time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("hashed_key", hashedKey),
		attribute.String("source", string(source)),
		attribute.Int("depth", depth),
	)
	s.resolveCounter.Add(ctx, 1, attrs)
	s.resolveDuration.Record(ctx, latency.Seconds(), metric.WithAttributes(
		attribute.String("source", string(source)),
	))
}

// OnMiss records an exhausted provider chain.
func (s *resolverSink) OnMiss(ctx context.Context, hashedKey string) {
	s.missCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hashed_key", hashedKey),
	))
}

// OnCacheHit records a lookup served from the cache.
func (s *resolverSink) OnCacheHit(ctx context.Context, hashedKey string) {
	s.cacheHitCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hashed_key", hashedKey),
	))
}

// OnCacheMiss records a lookup falling through to the provider chain.
func (s *resolverSink) OnCacheMiss(ctx context.Context, hashedKey string) {
	s.cacheMissCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hashed_key", hashedKey),
	))
}

// OnProviderError records a transient provider failure at the given depth.
func (s *resolverSink) OnProviderError(ctx context.Context, hashedKey string, depth int) {
	s.providerErrorCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hashed_key", hashedKey),
		attribute.Int("depth", depth),
	))
}
