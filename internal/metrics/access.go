package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AccessMetrics records authorization decisions for observability.
// Outcome examples: "allowed", "forbidden", "invalid".
type AccessMetrics interface {
	// RecordCheck records one authorization decision.
	// Operation examples: "access_check", "escalation_validate".
	RecordCheck(ctx context.Context, operation, outcome string)
}

// accessMetrics implements AccessMetrics using OpenTelemetry metrics.
type accessMetrics struct {
	checkCounter metric.Int64Counter
}

// NewAccessMetrics creates an AccessMetrics implementation using the provided
// meter provider. The namespace prefixes the metric name.
func NewAccessMetrics(meterProvider metric.MeterProvider, namespace string) (AccessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	checkCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_access_checks_total", namespace),
		metric.WithDescription("Total number of authorization decisions"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access check counter: %w", err)
	}

	return &accessMetrics{checkCounter: checkCounter}, nil
}

// RecordCheck increments the decision counter with operation and outcome labels.
func (a *accessMetrics) RecordCheck(ctx context.Context, operation, outcome string) {
	a.checkCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

// NoOpAccessMetrics is a no-op implementation for when metrics are disabled.
type NoOpAccessMetrics struct{}

// NewNoOpAccessMetrics creates a no-op AccessMetrics implementation.
func NewNoOpAccessMetrics() AccessMetrics {
	return &NoOpAccessMetrics{}
}

// RecordCheck does nothing when metrics are disabled.
func (n *NoOpAccessMetrics) RecordCheck(ctx context.Context, operation, outcome string) {
	// No-op
}
