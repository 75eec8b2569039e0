package response

import (
	"errors"
	"net/http"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/pkg/jwt"
	"github.com/nydart/notification-service/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, notification.ErrInvalidPhoneNumber):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, notification.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, jwt.ErrInvalidServiceToken):
		Unauthorized(w, "Invalid service token")
	case errors.Is(err, notification.ErrNoEmailService):
		Failure(w, http.StatusInternalServerError, "No email service configured", err)
	case errors.Is(err, notification.ErrSMSNotConfigured):
		Failure(w, http.StatusInternalServerError, "SMS service not configured", err)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
