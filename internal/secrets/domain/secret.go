// Package domain defines the secret resolution domain models.
//
// A Secret is a named credential value resolved on demand. Secrets are created
// transiently per resolution call and immediately either returned to the caller
// or discarded; only their encrypted form persists, in the resolver cache.
package domain

import (
	"time"
)

// Source tags where a resolved secret value came from.
type Source string

const (
	// SourceCache marks a value served from the encrypted cache.
	SourceCache Source = "cache"

	// SourceEnv marks a value read from process environment variables.
	SourceEnv Source = "env"

	// SourceDotenv marks a value read from a dotenv file.
	SourceDotenv Source = "dotenv"

	// SourceStatic marks a value injected at construction time (CI secrets).
	SourceStatic Source = "static"

	// SourceKeeper marks a value unwrapped through a KMS keeper.
	SourceKeeper Source = "keeper"

	// SourceFallback marks a caller-supplied fallback value.
	SourceFallback Source = "fallback"
)

// Secret is a resolved credential value. It is never persisted outside the
// cache and never logged by raw key or value.
type Secret struct {
	Key       string
	Value     string
	Source    Source
	FetchedAt time.Time
}
