package domain

import (
	"github.com/empirehq/trustcore/internal/errors"
)

// Access-control errors.
var (
	// ErrUnknownRole indicates a role value outside the fixed hierarchy.
	// Role comparison fails closed on unknown values.
	ErrUnknownRole = errors.Wrap(errors.ErrInvalidInput, "unknown role")
)
