// Package provider defines the pluggable secret source contract and its
// concrete adapters (environment variables, dotenv files, CI-injected values,
// KMS keepers). Adapters satisfy a single interface; there is no subclassing.
package provider

import (
	"context"

	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// Provider is one pluggable source capable of answering a secret lookup.
//
// Get returns (nil, nil) when the provider has no opinion on the key; the
// resolver treats that as "continue to the next provider", not as an error.
// A non-nil error signals a transient failure of this provider; the resolver
// swallows it and proceeds down the chain, favoring availability over
// failing fast.
type Provider interface {
	// Name identifies the provider in cache stats and logs.
	Name() string

	// Get resolves the key or reports no opinion with (nil, nil).
	Get(ctx context.Context, key string) (*secretsDomain.Secret, error)
}
