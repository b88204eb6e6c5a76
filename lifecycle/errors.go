package lifecycle

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by lifecycle operations. Checked before any write;
// an operation that fails with one of these has changed nothing.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("operation not valid for current status")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrConstraintViolation = errors.New("constraint violation")
)

// ErrAlreadyReturned is the double-return case. It wraps ErrInvalidState so
// callers matching the broader kind still catch it.
var ErrAlreadyReturned = fmt.Errorf("checkout already returned: %w", ErrInvalidState)
