package provider

import (
	"context"
	"encoding/base64"
	"time"

	"gocloud.dev/secrets"

	apperrors "github.com/empirehq/trustcore/internal/errors"
	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"

	// Register KMS keeper drivers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperProvider resolves secrets whose values are stored wrapped by a KMS
// keeper (edge-platform and vault-backed secret stores). The provider holds
// base64-encoded ciphertexts and unwraps them on demand; plaintext values
// never appear in configuration.
type KeeperProvider struct {
	keeper      *secrets.Keeper
	ciphertexts map[string]string
}

// OpenKeeper opens a secrets.Keeper for the given key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	return keeper, nil
}

// NewKeeper creates a provider over base64 std-encoded ciphertexts unwrapped
// through the given keeper.
func NewKeeper(keeper *secrets.Keeper, ciphertexts map[string]string) *KeeperProvider {
	copied := make(map[string]string, len(ciphertexts))
	for k, v := range ciphertexts {
		copied[k] = v
	}
	return &KeeperProvider{keeper: keeper, ciphertexts: copied}
}

// Name identifies the provider in cache stats and logs.
func (p *KeeperProvider) Name() string {
	return "keeper"
}

// Get decrypts the wrapped value for the key through the keeper. Decode and
// decrypt failures are transient provider failures, not resolution errors.
func (p *KeeperProvider) Get(ctx context.Context, key string) (*secretsDomain.Secret, error) {
	wrapped, ok := p.ciphertexts[key]
	if !ok {
		return nil, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode wrapped secret")
	}

	plaintext, err := p.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unwrap secret")
	}

	return &secretsDomain.Secret{
		Key:       key,
		Value:     string(plaintext),
		Source:    secretsDomain.SourceKeeper,
		FetchedAt: time.Now().UTC(),
	}, nil
}
