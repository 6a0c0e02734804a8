package provider

import (
	"context"
	"sync"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/empirehq/trustcore/internal/errors"
	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// DotenvProvider resolves secrets from a dotenv file without mutating the
// process environment. The file is read once on first lookup; a missing or
// unreadable file is reported as a transient failure so the resolver can
// continue down the provider chain.
type DotenvProvider struct {
	path string

	once   sync.Once
	values map[string]string
	err    error
}

// NewDotenv creates a provider backed by the dotenv file at path.
func NewDotenv(path string) *DotenvProvider {
	return &DotenvProvider{path: path}
}

// Name identifies the provider in cache stats and logs.
func (p *DotenvProvider) Name() string {
	return "dotenv"
}

// Get looks up the key in the parsed dotenv file.
func (p *DotenvProvider) Get(ctx context.Context, key string) (*secretsDomain.Secret, error) {
	p.once.Do(func() {
		values, err := godotenv.Read(p.path)
		if err != nil {
			p.err = apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
			return
		}
		p.values = values
	})
	if p.err != nil {
		return nil, p.err
	}

	value, ok := p.values[key]
	if !ok || value == "" {
		return nil, nil
	}

	return &secretsDomain.Secret{
		Key:       key,
		Value:     value,
		Source:    secretsDomain.SourceDotenv,
		FetchedAt: time.Now().UTC(),
	}, nil
}
