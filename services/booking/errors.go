package booking

import (
	"errors"

	"pilateshub/models"
)

var (
	ErrInvalidTransition = &models.ValidationError{Code: models.CodeInvalidTransition, Message: "invalid booking transition"}

	ErrBookingNotFound    = errors.New("booking not found")
	ErrInstructorNotFound = errors.New("instructor not found")
)

func invalidTransition(from, to models.BookingStatus) error {
	return models.NewValidationError(models.CodeInvalidTransition, "booking cannot move from %s to %s", from, to)
}
