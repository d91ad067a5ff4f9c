package catalog

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrConflict: identity already exists. Distinct from other storage
	// faults so queue redelivery can treat it as an idempotent skip.
	ErrConflict = errors.New("product already exists")
)

// ValidationError carries every reason a creation request was rejected.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}
