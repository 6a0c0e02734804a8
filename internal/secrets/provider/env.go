package provider

import (
	"context"
	"os"
	"strings"
	"time"

	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// EnvProvider resolves secrets from process environment variables.
//
// An optional prefix supports alternative variable namings: with prefix
// "EMPIRE_", the key "API_KEY" is looked up as "EMPIRE_API_KEY". An optional
// alias map overrides the variable name for specific keys; aliases win over
// the prefix.
type EnvProvider struct {
	name    string
	prefix  string
	aliases map[string]string
}

// NewEnv creates a provider reading environment variables by key name.
func NewEnv() *EnvProvider {
	return &EnvProvider{name: "env"}
}

// NewPrefixedEnv creates a provider reading environment variables with the
// given name prefix prepended to every key.
func NewPrefixedEnv(prefix string) *EnvProvider {
	return &EnvProvider{name: "env:" + strings.ToLower(prefix), prefix: prefix}
}

// WithAliases sets per-key variable name overrides and returns the provider.
func (p *EnvProvider) WithAliases(aliases map[string]string) *EnvProvider {
	p.aliases = aliases
	return p
}

// Name identifies the provider in cache stats and logs.
func (p *EnvProvider) Name() string {
	return p.name
}

// Get looks up the key in the process environment. Unset variables mean the
// provider has no opinion; empty values are treated the same way so a blank
// export never shadows a later provider.
func (p *EnvProvider) Get(ctx context.Context, key string) (*secretsDomain.Secret, error) {
	envName := p.prefix + key
	if alias, ok := p.aliases[key]; ok && alias != "" {
		envName = alias
	}

	value, ok := os.LookupEnv(envName)
	if !ok || value == "" {
		return nil, nil
	}

	return &secretsDomain.Secret{
		Key:       key,
		Value:     value,
		Source:    secretsDomain.SourceEnv,
		FetchedAt: time.Now().UTC(),
	}, nil
}
