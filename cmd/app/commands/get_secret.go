package commands

import (
	"context"
	"fmt"

	"github.com/empirehq/trustcore/internal/app"
	"github.com/empirehq/trustcore/internal/config"
	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// RunGetSecret resolves a key through the configured provider chain and
// prints the result. By default only metadata (hashed key, source) is
// printed; --show-value prints the plaintext value for shell interpolation.
//
// With --fallback, an exhausted provider chain returns the fallback value
// instead of failing; any other resolver error still fails the command.
func RunGetSecret(
	ctx context.Context,
	io IOTuple,
	key string,
	fallback string,
	hasFallback bool,
	showValue bool,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	resolver, err := container.Resolver()
	if err != nil {
		return fmt.Errorf("failed to initialize resolver: %w", err)
	}

	var secret *secretsDomain.Secret
	if hasFallback {
		secret, err = resolver.GetSecretWithFallback(ctx, key, fallback)
	} else {
		secret, err = resolver.GetSecret(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", secretsDomain.HashKey(key), err)
	}

	if showValue {
		fmt.Fprintln(io.Writer, secret.Value)
		return nil
	}

	fmt.Fprintf(io.Writer, "Key digest: %s\n", secretsDomain.HashKey(key))
	fmt.Fprintf(io.Writer, "Source:     %s\n", secret.Source)
	fmt.Fprintf(io.Writer, "Fetched at: %s\n", secret.FetchedAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
