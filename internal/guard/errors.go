package guard

import (
	"errors"
	"fmt"
)

// ErrMisconfiguredGuard is returned when a guard cannot produce a decision.
var ErrMisconfiguredGuard = errors.New("misconfigured guard")

// MisconfigurationError names the guard that failed and why.
type MisconfigurationError struct {
	Guard  string
	Reason string
}

func (e *MisconfigurationError) Error() string {
	return fmt.Sprintf("guard %q: %s", e.Guard, e.Reason)
}

func (e *MisconfigurationError) Unwrap() error { return ErrMisconfiguredGuard }
