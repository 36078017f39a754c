package booking

import (
	"errors"
	"fmt"
)

// Business-rule rejections. These are deterministic and surfaced to the
// caller verbatim; they are never retried.
var (
	ErrSlotUnavailable          = errors.New("requested slot is not available")
	ErrSlotFull                 = errors.New("slot is fully booked")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
	ErrNotFound                 = errors.New("reservation not found")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
