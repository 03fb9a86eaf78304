package usecase

import (
	"errors"
	"fmt"
	"strings"

	"venue-booking/pkg/utils"
)

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrLinkInvalid        = errors.New("link is invalid or inactive")
	ErrLinkExpired        = errors.New("link has expired")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlotTaken          = errors.New("time slot is already booked")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
)

// ValidationError carries field level messages keyed by json field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(fields map[string]string) *ValidationError {
	if missing := utils.MissingFields(fields); len(missing) > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			Fields:  fields,
		}
	}
	return &ValidationError{
		Message: fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(fields)),
		Fields:  fields,
	}
}

func fieldError(field, msg string) *ValidationError {
	return newValidationError(map[string]string{field: msg})
}
