package handlers

import (
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/osteria-vecchia/reservations-api/internal/booking"
	"github.com/osteria-vecchia/reservations-api/internal/store"
)

// mapDomainError translates booking/store errors into HTTP responses.
// Validation problems are 422, deterministic business rejections are 409,
// storage contention is 503 (the caller may retry the whole operation), and
// anything else is an opaque 500.
func mapDomainError(err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(verr.Error())
	case errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrSlotFull),
		errors.Is(err, booking.ErrCancellationWindowClosed):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, booking.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, store.ErrConcurrencyExhausted):
		return huma.Error503ServiceUnavailable("could not commit due to concurrent updates, please retry")
	default:
		log.Printf("internal error: %v", err)
		return huma.Error500InternalServerError("internal error")
	}
}
