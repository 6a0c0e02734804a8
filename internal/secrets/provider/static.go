package provider

import (
	"context"
	"maps"
	"time"

	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// StaticProvider resolves secrets from a fixed map injected at construction
// time. It backs CI secret stores (values handed to the process by the CI
// runner) and isolated resolvers in tests.
type StaticProvider struct {
	name   string
	values map[string]string
}

// NewStatic creates a provider over a copy of the given values.
func NewStatic(name string, values map[string]string) *StaticProvider {
	copied := make(map[string]string, len(values))
	maps.Copy(copied, values)
	return &StaticProvider{name: name, values: copied}
}

// Name identifies the provider in cache stats and logs.
func (p *StaticProvider) Name() string {
	return p.name
}

// Get looks up the key in the injected map.
func (p *StaticProvider) Get(ctx context.Context, key string) (*secretsDomain.Secret, error) {
	value, ok := p.values[key]
	if !ok {
		return nil, nil
	}

	return &secretsDomain.Secret{
		Key:       key,
		Value:     value,
		Source:    secretsDomain.SourceStatic,
		FetchedAt: time.Now().UTC(),
	}, nil
}
