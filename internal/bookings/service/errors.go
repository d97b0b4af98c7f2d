package service

import (
	"errors"
	"strings"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/validator"
	apperrors "villa/pkg/errors"
)

// translate maps repository sentinels onto the API error taxonomy. AppErrors
// pass through untouched.
func translate(err error, resource, id, action string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + strings.ToLower(resource) + " ID format")
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Conflict("Booking was modified by another request, reload and try again")
	case errors.Is(err, bookingserrors.ErrLockHeld):
		return apperrors.Conflict("Dates are being booked by another request, please try again")
	default:
		return apperrors.Internal("Failed to "+action, err)
	}
}

// validationFailure wraps validator output in a VALIDATION_ERROR keyed by field.
func validationFailure(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
