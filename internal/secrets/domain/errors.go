package domain

import (
	"fmt"

	"github.com/empirehq/trustcore/internal/errors"
)

// SecretNotFoundError is raised after every registered provider has been
// consulted and none answered. It carries the caller's own key (the key is
// only hashed in logs and metrics, not in errors returned to the caller).
type SecretNotFoundError struct {
	Key string
}

// Error returns a message naming the unresolved key.
func (e *SecretNotFoundError) Error() string {
	return fmt.Sprintf("secret %q not found in any provider", e.Key)
}

// Unwrap makes the error match errors.ErrNotFound for handler mapping.
func (e *SecretNotFoundError) Unwrap() error {
	return errors.ErrNotFound
}
